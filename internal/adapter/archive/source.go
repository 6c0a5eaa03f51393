// Package archive extracts the region price table from a downloaded
// snapshot archive.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

// AssetDownloader fetches a catalog asset by URL. Implemented by the catalog
// client.
type AssetDownloader interface {
	DownloadAsset(ctx context.Context, url string) ([]byte, error)
}

// Source implements domain.SnapshotRepository: it downloads an entry's zip
// asset and returns the CSV whose path matches the region's dated naming
// convention (data/<region>/mercadona_<region>_<date>.csv).
type Source struct {
	Downloader AssetDownloader
	Region     string
}

// NewSource creates a new Source instance for one region.
func NewSource(downloader AssetDownloader, region string) *Source {
	return &Source{Downloader: downloader, Region: region}
}

// FetchTable downloads the entry's archive and opens its region table.
// An entry whose archives hold no matching table is an
// ArchiveExtractionError.
func (s *Source) FetchTable(ctx context.Context, entry domain.CatalogEntry) (io.ReadCloser, error) {
	marker := fmt.Sprintf("data/%s/mercadona_%s_", s.Region, s.Region)

	for _, asset := range entry.Assets {
		if !strings.HasSuffix(asset.Name, ".zip") {
			continue
		}
		data, err := s.Downloader.DownloadAsset(ctx, asset.URL)
		if err != nil {
			return nil, err
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, &domain.ArchiveExtractionError{Asset: asset.Name, Region: s.Region}
		}
		for _, f := range zr.File {
			if strings.HasSuffix(f.Name, ".csv") && strings.Contains(f.Name, marker) {
				return f.Open()
			}
		}
	}
	return nil, &domain.ArchiveExtractionError{Asset: entry.Tag, Region: s.Region}
}
