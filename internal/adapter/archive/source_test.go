package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

// MockAssetDownloader is a mock implementation of AssetDownloader for testing
type MockAssetDownloader struct {
	mock.Mock
}

func (m *MockAssetDownloader) DownloadAsset(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetchTable_SelectsRegionTable(t *testing.T) {
	csv := "product_id;product_name;price\n101;Leche;1.05\n"
	data := zipArchive(t, map[string]string{
		"data/madrid/mercadona_madrid_2026-01-04.csv": csv,
		"data/aragon/mercadona_aragon_2026-01-04.csv": "otra region",
		"data/madrid/notes.txt":                       "ignore me",
	})

	entry := domain.CatalogEntry{
		Tag: "2026-01-04",
		Assets: []domain.CatalogAsset{
			{Name: "checksums.txt", URL: "https://example.com/checksums.txt"},
			{Name: "snapshot.zip", URL: "https://example.com/snapshot.zip"},
		},
	}

	downloader := new(MockAssetDownloader)
	downloader.On("DownloadAsset", mock.Anything, "https://example.com/snapshot.zip").
		Return(data, nil)

	source := NewSource(downloader, "madrid")
	rc, err := source.FetchTable(context.Background(), entry)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, csv, string(got))

	// The non-zip asset must never be downloaded.
	downloader.AssertNumberOfCalls(t, "DownloadAsset", 1)
}

func TestFetchTable_RegionMissing(t *testing.T) {
	data := zipArchive(t, map[string]string{
		"data/aragon/mercadona_aragon_2026-01-04.csv": "otra region",
	})

	entry := domain.CatalogEntry{
		Tag:    "2026-01-04",
		Assets: []domain.CatalogAsset{{Name: "snapshot.zip", URL: "https://example.com/snapshot.zip"}},
	}

	downloader := new(MockAssetDownloader)
	downloader.On("DownloadAsset", mock.Anything, mock.Anything).Return(data, nil)

	source := NewSource(downloader, "madrid")
	_, err := source.FetchTable(context.Background(), entry)

	var extractErr *domain.ArchiveExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "madrid", extractErr.Region)
}

func TestFetchTable_NoZipAssets(t *testing.T) {
	entry := domain.CatalogEntry{
		Tag:    "2026-01-04",
		Assets: []domain.CatalogAsset{{Name: "readme.md", URL: "https://example.com/readme.md"}},
	}

	source := NewSource(new(MockAssetDownloader), "madrid")
	_, err := source.FetchTable(context.Background(), entry)

	var extractErr *domain.ArchiveExtractionError
	assert.ErrorAs(t, err, &extractErr)
}

func TestFetchTable_CorruptArchive(t *testing.T) {
	entry := domain.CatalogEntry{
		Tag:    "2026-01-04",
		Assets: []domain.CatalogAsset{{Name: "snapshot.zip", URL: "https://example.com/snapshot.zip"}},
	}

	downloader := new(MockAssetDownloader)
	downloader.On("DownloadAsset", mock.Anything, mock.Anything).
		Return([]byte("not a zip"), nil)

	source := NewSource(downloader, "madrid")
	_, err := source.FetchTable(context.Background(), entry)

	var extractErr *domain.ArchiveExtractionError
	assert.ErrorAs(t, err, &extractErr)
}

func TestFetchTable_DownloadErrorPropagates(t *testing.T) {
	entry := domain.CatalogEntry{
		Tag:    "2026-01-04",
		Assets: []domain.CatalogAsset{{Name: "snapshot.zip", URL: "https://example.com/snapshot.zip"}},
	}

	fetchErr := &domain.CatalogFetchError{Op: "download asset", Err: assert.AnError}
	downloader := new(MockAssetDownloader)
	downloader.On("DownloadAsset", mock.Anything, mock.Anything).Return(nil, fetchErr)

	source := NewSource(downloader, "madrid")
	_, err := source.FetchTable(context.Background(), entry)

	var catalogErr *domain.CatalogFetchError
	assert.ErrorAs(t, err, &catalogErr)
}
