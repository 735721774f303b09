package ecoflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/quota"
)

const DefaultBaseURL = "https://api.ecoflow.com"

const (
	endpointDeviceList  = "/iot-open/sign/device/list"
	endpointDeviceQuota = "/iot-open/sign/device/quota/all"
)

// APIError is an application-level vendor error: the HTTP exchange
// succeeded but the envelope code is non-zero.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ecoflow api error %s: %s", e.Code, e.Message)
}

type DeviceInfo struct {
	SN          string `json:"sn"`
	DeviceName  string `json:"deviceName"`
	ProductName string `json:"productName"`
	Online      int    `json:"online"`
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the vendor device-cloud API. Outbound calls go through
// a shared rate limiter so collection bursts stay polite.
type Client struct {
	AccessKey  string
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client

	limiter *rate.Limiter
}

func NewClient(accessKey, secretKey, baseURL string, limit rate.Limit, burst int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// request issues one signed call. params are both signed and sent as the
// query string; extraQuery is appended to the URL but excluded from the
// signature (the quota endpoint quirk).
func (c *Client) request(method, endpoint string, params, extraQuery map[string]string) (*envelope, error) {
	logger := common.GetLogger().Named(common.LoggerNameEcoflowClient)

	if c.limiter != nil {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}
	}

	timestamp := time.Now().UnixMilli()
	nonce := fmt.Sprintf("%06d", rand.Intn(1000000))
	signature := Sign(c.SecretKey, c.AccessKey, params, timestamp, nonce)

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	for k, v := range extraQuery {
		values.Set(k, v)
	}

	reqURL := c.BaseURL + endpoint
	if encoded := values.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequest(method, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accessKey", c.AccessKey)
	req.Header.Set("nonce", nonce)
	req.Header.Set("timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("sign", signature)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ecoflow request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ecoflow response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ecoflow http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("ecoflow response decode failed: %w", err)
	}

	if env.Code != "0" {
		logger.Warn("Vendor API returned error code",
			zap.String("endpoint", endpoint),
			zap.String("code", env.Code),
			zap.String("message", env.Message))
		return nil, &APIError{Code: env.Code, Message: env.Message}
	}

	return &env, nil
}

// ListDevices returns the devices bound to the account.
func (c *Client) ListDevices() ([]DeviceInfo, error) {
	env, err := c.request(http.MethodGet, endpointDeviceList, nil, nil)
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return devices, nil
	}
	if err := json.Unmarshal(env.Data, &devices); err != nil {
		return nil, fmt.Errorf("ecoflow device list decode failed: %w", err)
	}
	return devices, nil
}

// GetDeviceQuota fetches the full telemetry snapshot for one device.
// The serial goes on the URL unsigned; the signature covers the base
// parameter set only. A null/empty payload yields a nil bag, not an
// error.
func (c *Client) GetDeviceQuota(sn string) (quota.Bag, error) {
	env, err := c.request(http.MethodGet, endpointDeviceQuota, nil, map[string]string{"sn": sn})
	if err != nil {
		return nil, err
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	return quota.ParseBag(env.Data)
}
