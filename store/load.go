package store

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/fakebook/fakebook/errors"
	"github.com/fakebook/fakebook/types"
)

// Open loads the dataset file at path and returns a store over it.
// The file holds the three collections as JSON:
//
//	{"users": [...], "posts": [...], "comments": [...]}
func Open(path string, logger *slog.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, "Store", "Open", "read dataset file")
	}

	var ds types.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.WrapInvalid(err, "Store", "Open", "dataset unmarshal")
	}

	s := New(ds, logger)
	s.logger.Info("dataset loaded",
		"path", path,
		"users", len(ds.Users),
		"posts", len(ds.Posts),
		"comments", len(ds.Comments))

	return s, nil
}
