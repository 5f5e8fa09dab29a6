package quiz

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// encodePageToken uses a plain offset string.
func encodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return strconv.Itoa(offset)
}

func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, errors.Errorf("invalid page_token %q", token)
	}
	return n, nil
}

func pageSize(requested int) int {
	switch {
	case requested <= 0:
		return defaultPageSize
	case requested > maxPageSize:
		return maxPageSize
	}
	return requested
}
