package request

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request is the shared HTTP client for every external read-only API the
// panel talks to (DexScreener, RugCheck, Jupiter price, Telegram). Retries
// cover transport-level failures only; upstream 4xx/5xx responses are handed
// back to the caller, which decides between sentinel values and fallbacks.
// Proxy settings come from the environment so the whole process can be
// routed through one tunnel.
var Request = resty.New().
	SetTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}).
	SetRetryCount(3).
	SetRetryWaitTime(500 * time.Millisecond).
	SetRetryMaxWaitTime(3 * time.Second).
	SetHeader("Accept", "application/json")
