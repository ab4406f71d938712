package supabase

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
)

// eqFilter builds a PostgREST equality filter, e.g. "profile_id=eq.abc".
func eqFilter(column, value string) string {
	return fmt.Sprintf("%s=eq.%s", column, url.QueryEscape(value))
}

// nullable maps "" to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
