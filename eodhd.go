package trinity

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
)

const eodhd_api_key = "EODHD_API_KEY"

var eodhdApiFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for fetching prices from EODHD.com.\n If missing it will read for the environment variable \""+eodhd_api_key+"\". You can get one at https://eodhd.com/")

func eodhdApiKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *eodhdApiFlag == "" {
		*eodhdApiFlag = os.Getenv(eodhd_api_key)
	}
	return *eodhdApiFlag
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// returns a client with a cache all with daily expire
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// EODHD fetches daily bars and dividends from the EODHD.com API.
// US-listed ETFs are addressed as "<ticker>.US".
type EODHD struct {
	apiKey string
}

// NewEODHD returns a provider using the -eodhd-api-key flag or the
// EODHD_API_KEY environment variable.
func NewEODHD() (*EODHD, error) {
	key := eodhdApiKey()
	if key == "" {
		return nil, fmt.Errorf("missing EODHD API key: set -eodhd-api-key or %s", eodhd_api_key)
	}
	return &EODHD{apiKey: key}, nil
}

// DailyBars implements Provider.
func (e *EODHD) DailyBars(ticker string, from, to Date) (open, close, adj *Series, err error) {
	// https://eodhd.com/api/eod/MTUM.US?api_token=...&fmt=json&from=2015-01-02&to=2015-12-31
	// [
	//	{
	//		"date": "2015-01-02",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },
	// bounds are included in the response.

	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s.US?fmt=json&api_token=%s&from=%s&to=%s", ticker, e.apiKey, from, to)
	type Info struct {
		Date     Date    `json:"date"`
		Open     float64 `json:"open"`
		Close    float64 `json:"close"`
		Adjusted float64 `json:"adjusted_close"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := jwget(daily(), addr, &content); err != nil {
		return nil, nil, nil, err
	}

	open, close, adj = &Series{}, &Series{}, &Series{}
	for _, info := range content {
		open.Append(info.Date, info.Open)
		close.Append(info.Date, info.Close)
		adj.Append(info.Date, info.Adjusted)
	}
	return open, close, adj, nil
}

// Dividends implements Provider. Amounts are per share on the ex-date.
func (e *EODHD) Dividends(ticker string, from, to Date) (*Series, error) {
	// https://eodhd.com/api/div/MTUM.US?api_token=...&fmt=json
	// [
	//	{
	//		"date": "2015-03-26",
	//		"declarationDate": "2015-03-24",
	//		"value": 0.2402,
	//		"unadjustedValue": 0.2402,
	//		"currency": "USD"
	//	  },

	addr := fmt.Sprintf("https://eodhd.com/api/div/%s.US?fmt=json&api_token=%s&from=%s&to=%s", ticker, e.apiKey, from, to)
	type Info struct {
		Date  Date    `json:"date"`
		Value float64 `json:"value"`
	}

	content := make([]Info, 0)
	if err := jwget(daily(), addr, &content); err != nil {
		return nil, err
	}

	divs := &Series{}
	for _, info := range content {
		divs.Append(info.Date, info.Value)
	}
	return divs, nil
}
