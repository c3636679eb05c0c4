package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fixtures/internal/fileutil"
	"fixtures/internal/logging"
	"fixtures/internal/textutil"
)

// AttachStatus is the outcome for one attached file.
type AttachStatus string

const (
	AttachCopied  AttachStatus = "copied"
	AttachSkipped AttachStatus = "skipped"
	AttachFailed  AttachStatus = "failed"
)

// AttachResult describes what happened to one source file.
type AttachResult struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Status AttachStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// Attach copies files into a fixture's storage folder, naming each
// <fullId><ext>. Existing targets are left alone unless overwrite is set.
// Every source gets a result; the returned error joins the failures.
func (r *Registry) Attach(ctx context.Context, id int64, sources []string, overwrite bool) ([]AttachResult, error) {
	fixture, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	logger := logging.WithContext(logging.WithFixtureID(ctx, fixture.FullID), r.logger)

	if err := os.MkdirAll(fixture.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrStorageIO, fixture.BasePath, err)
	}

	results := make([]AttachResult, 0, len(sources))
	targets := make(map[string]string, len(sources))
	var errs []error
	for _, src := range sources {
		name := fixture.FileName(textutil.FileExtension(src))
		target := filepath.Join(fixture.BasePath, name)
		result := AttachResult{Source: src, Target: target}

		if other, dup := targets[target]; dup {
			result.Status = AttachFailed
			result.Error = fmt.Sprintf("same target as %s", other)
			errs = append(errs, fmt.Errorf("attach %s: %s", src, result.Error))
			results = append(results, result)
			continue
		}
		targets[target] = src

		if _, err := os.Stat(target); err == nil && !overwrite {
			result.Status = AttachSkipped
			results = append(results, result)
			continue
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			result.Status = AttachFailed
			result.Error = err.Error()
			errs = append(errs, fmt.Errorf("%w: stat %s: %v", ErrStorageIO, target, err))
			results = append(results, result)
			continue
		}

		if err := fileutil.CopyFileVerified(src, target); err != nil {
			result.Status = AttachFailed
			result.Error = err.Error()
			errs = append(errs, fmt.Errorf("%w: copy %s: %v", ErrStorageIO, src, err))
			results = append(results, result)
			continue
		}
		result.Status = AttachCopied
		results = append(results, result)
		logger.Info("file attached", logging.String("source", src), logging.String("target", target))
	}
	return results, errors.Join(errs...)
}
