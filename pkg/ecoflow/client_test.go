package ecoflow

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	_ "github.com/drcreatives/my-ecoflow-sub000/pkg/testing"
)

const (
	testAccessKey = "test-access-key"
	testSecretKey = "test-secret-key"
)

func newTestClient(baseURL string) *Client {
	return NewClient(testAccessKey, testSecretKey, baseURL, 1000, 1000)
}

// verifySignature recomputes the signature server-side from the headers
// plus the signed params and compares against the sign header.
func verifySignature(t *testing.T, r *http.Request, signedParams map[string]string) {
	t.Helper()

	ts, err := strconv.ParseInt(r.Header.Get("timestamp"), 10, 64)
	require.NoError(t, err)

	nonce := r.Header.Get("nonce")
	require.Len(t, nonce, 6)

	assert.Equal(t, testAccessKey, r.Header.Get("accessKey"))

	expected := Sign(testSecretKey, testAccessKey, signedParams, ts, nonce)
	assert.Equal(t, expected, r.Header.Get("sign"))
}

func TestListDevices(t *testing.T) {
	common.SetTestLoggerNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/iot-open/sign/device/list", r.URL.Path)
		verifySignature(t, r, nil)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0","message":"Success","data":[
			{"sn":"R331ZEB4ZEAL0528","deviceName":"Garage Delta","productName":"DELTA 2","online":1},
			{"sn":"R611B5XXXX","deviceName":"","productName":"RIVER 2","online":0}
		]}`))
	}))
	defer server.Close()

	devices, err := newTestClient(server.URL).ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "R331ZEB4ZEAL0528", devices[0].SN)
	assert.Equal(t, "DELTA 2", devices[0].ProductName)
	assert.Equal(t, 1, devices[0].Online)
	assert.Equal(t, 0, devices[1].Online)
}

func TestGetDeviceQuota_SignsBaseSetOnly(t *testing.T) {
	common.SetTestLoggerNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/iot-open/sign/device/quota/all", r.URL.Path)
		// sn rides on the URL but stays out of the signature
		assert.Equal(t, "R331ZEB4ZEAL0528", r.URL.Query().Get("sn"))
		verifySignature(t, r, nil)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0","message":"Success","data":{
			"bms_bmsStatus.soc": 67,
			"pd.wattsInSum": 120,
			"pd.model": "DELTA2"
		}}`))
	}))
	defer server.Close()

	bag, err := newTestClient(server.URL).GetDeviceQuota("R331ZEB4ZEAL0528")
	require.NoError(t, err)
	require.NotNil(t, bag)

	soc, ok := bag["bms_bmsStatus.soc"].Float()
	assert.True(t, ok)
	assert.Equal(t, 67.0, soc)

	model, ok := bag["pd.model"].String()
	assert.True(t, ok)
	assert.Equal(t, "DELTA2", model)
}

func TestGetDeviceQuota_NullData(t *testing.T) {
	common.SetTestLoggerNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0","message":"Success","data":null}`))
	}))
	defer server.Close()

	bag, err := newTestClient(server.URL).GetDeviceQuota("SN001")
	require.NoError(t, err)
	assert.Nil(t, bag)
}

func TestRequest_APIError(t *testing.T) {
	common.SetTestLoggerNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the vendor reports auth failures inside a 200 envelope
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"1001","message":"Signature verification failed"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDevices()
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "1001", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Signature")
}

func TestRequest_HTTPError(t *testing.T) {
	common.SetTestLoggerNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDevices()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "api error")
	assert.Contains(t, err.Error(), "502")
}
