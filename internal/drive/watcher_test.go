package drive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

type fakeSource struct {
	files      []*File
	content    map[string]string
	downloaded []string
	failOn     string
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "missing" {
		return nil, errors.New("folder not found")
	}
	return f.files, nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, file *File, w io.Writer) error {
	if file.ID == f.failOn {
		return errors.New("quota exceeded")
	}
	f.downloaded = append(f.downloaded, file.ID)
	_, err := io.WriteString(w, f.content[file.ID])
	return err
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		files: []*File{
			{ID: "1", Name: "ventes_fevrier.csv", MimeType: "text/csv"},
			{ID: "2", Name: "Fréquentation S-1", MimeType: spreadsheetMimeType},
			{ID: "3", Name: "frequentation_s-2.xlsx", MimeType: xlsxMimeType},
			{ID: "4", Name: "frequentation S-1 ancien.csv", MimeType: "text/csv"},
			{ID: "5", Name: "notes.pdf", MimeType: "application/pdf"},
			{ID: "6", Name: "frequentation n-1 an.csv", MimeType: "text/csv"},
		},
		content: map[string]string{"1": "sales", "2": "traffic-1", "3": "traffic-2", "4": "old", "6": "traffic-ly"},
	}
}

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		kind ExportKind
		week domain.WeekOffset
	}{
		{"ventes_fevrier.csv", KindSales, ""},
		{"Historique CA article.xlsx", KindSales, ""},
		{"frequentation.csv", KindTraffic, domain.MinusOneWeek},
		{"Fréquentation semaine -2.xlsx", KindTraffic, domain.MinusTwoWeeks},
		{"tickets_n-1_an.csv", KindTraffic, domain.SameWeekLastYear},
		{"Affluence LY.xlsx", KindTraffic, domain.SameWeekLastYear},
		{"referentiel produits.xlsx", KindReference, ""},
		{"planning.xlsx", KindUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, week := ClassifyName(tt.name)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.week, week)
		})
	}
}

func TestFetchExports(t *testing.T) {
	src := newFakeSource()
	exports, err := NewDownloader(src).FetchExports(context.Background(), "folder")
	require.NoError(t, err)

	require.Len(t, exports, 4)
	assert.Equal(t, KindSales, exports[0].Kind)
	assert.Equal(t, "Fréquentation S-1.xlsx", exports[1].Name)
	assert.Equal(t, domain.MinusOneWeek, exports[1].Week)
	assert.Equal(t, "traffic-1", string(exports[1].Data))
	assert.Equal(t, domain.MinusTwoWeeks, exports[2].Week)
	assert.Equal(t, domain.SameWeekLastYear, exports[3].Week)
	assert.Equal(t, []string{"1", "2", "3", "6"}, src.downloaded)
}

func TestFetchExportsErrors(t *testing.T) {
	_, err := NewDownloader(newFakeSource()).FetchExports(context.Background(), "missing")
	assert.Error(t, err)

	src := newFakeSource()
	src.failOn = "3"
	_, err = NewDownloader(src).FetchExports(context.Background(), "folder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frequentation_s-2.xlsx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDownloader(newFakeSource()).FetchExports(ctx, "folder")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	paths, err := NewDownloader(newFakeSource()).DownloadFolder(context.Background(), DownloadOptions{FolderID: "folder", DownloadDir: dir})
	require.NoError(t, err)
	require.Len(t, paths, 4)

	data, err := os.ReadFile(filepath.Join(dir, "ventes_fevrier.csv"))
	require.NoError(t, err)
	assert.Equal(t, "sales", string(data))

	_, err = NewDownloader(newFakeSource()).DownloadFolder(context.Background(), DownloadOptions{FolderID: "folder"})
	assert.Error(t, err)
}
