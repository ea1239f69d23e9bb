package helm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	helmgetter "helm.sh/helm/v4/pkg/getter"
	repov1 "helm.sh/helm/v4/pkg/repo/v1"
)

const (
	repoDirMode  = 0o750
	repoFileMode = 0o640
)

// AddRepository registers a Helm repository locally and downloads its index
// so charts can be located. Adding an already-registered repository updates
// its entry in place.
func (c *Client) AddRepository(ctx context.Context, entry *RepositoryEntry) error {
	if entry == nil {
		return errRepositoryEntryRequired
	}

	if entry.Name == "" {
		return errRepositoryNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("add repository context cancelled: %w", ctxErr)
	}

	repoFile := c.settings.RepositoryConfig

	err := os.MkdirAll(filepath.Dir(repoFile), repoDirMode)
	if err != nil {
		return fmt.Errorf("create repository directory: %w", err)
	}

	repoCache := c.settings.RepositoryCache

	err = os.MkdirAll(repoCache, repoDirMode)
	if err != nil {
		return fmt.Errorf("create repository cache directory: %w", err)
	}

	repositoryFile, err := repov1.LoadFile(repoFile)
	if err != nil {
		repositoryFile = repov1.NewFile()
	}

	repoEntry := &repov1.Entry{Name: entry.Name, URL: entry.URL}

	chartRepository, err := repov1.NewChartRepository(repoEntry, helmgetter.All(c.settings))
	if err != nil {
		return fmt.Errorf("create chart repository: %w", err)
	}

	chartRepository.CachePath = repoCache

	_, err = chartRepository.DownloadIndexFile()
	if err != nil {
		return fmt.Errorf("failed to download repository index for %q: %w", entry.Name, err)
	}

	repositoryFile.Update(repoEntry)

	err = repositoryFile.WriteFile(repoFile, repoFileMode)
	if err != nil {
		return fmt.Errorf("write repository file: %w", err)
	}

	return nil
}
