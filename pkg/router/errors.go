package router

import (
	"errors"
	"fmt"
)

var errEmptyResponse = errors.New("routing model returned empty response")

func errUnknownAdapter(name string) error {
	return fmt.Errorf("adapter %q not available", name)
}
