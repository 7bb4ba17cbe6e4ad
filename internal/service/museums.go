package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/museofile/internal/museofile"
)

type Searcher interface {
	Search(ctx context.Context, f museofile.Filter, limit int) ([]museofile.Museum, error)
}

type MuseumService struct {
	Client Searcher
}

// ParseLimit reads the limit query value. Empty means the default and any
// integer is clamped to the upstream page size range.
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return museofile.DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", ErrValidation)
	}
	return museofile.ClampLimit(n), nil
}

func (s *MuseumService) Search(ctx context.Context, f museofile.Filter, limit int) ([]museofile.Museum, error) {
	return s.Client.Search(ctx, f, museofile.ClampLimit(limit))
}
