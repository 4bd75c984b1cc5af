package nets

import (
	"net/http"
	"time"

	"github.com/reusee/sleuth/configs"
)

type HTTPClient = *http.Client

// HTTPTimeout bounds a single request to a remote collaborator; zero means no limit.
type HTTPTimeout time.Duration

func (Module) HTTPTimeout(
	loader configs.Loader,
) HTTPTimeout {
	str := configs.First[string](loader, "http_timeout")
	if str == "" {
		return 0
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		panic(err)
	}
	return HTTPTimeout(d)
}

func (Module) HTTPClient(
	dialer Dialer,
	timeout HTTPTimeout,
) HTTPClient {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: dialer.DialContext,
		},
		Timeout: time.Duration(timeout),
	}
}
