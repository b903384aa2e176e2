package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/ai/mock"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
	"github.com/poiesic/docfind/storage/badger"
)

func newTestRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return repo
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewPipeline(t *testing.T) {
	repo := newTestRepository(t)

	_, err := NewPipeline(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	p, err := NewPipeline(repo, mock.NewMockEmbedder(), WithPoolSize(2), WithChunking(500, 50))
	require.NoError(t, err)
	p.Release()
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "billing.md", "Module: Billing\n\n# Invoices\n\n### Overview\n\nInvoices are issued monthly.\n")
	writeDoc(t, dir, "security.md", sampleDoc)

	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	stored, err := pipeline.IngestDirectory(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	docs, err := repo.GetAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.NotEmpty(t, doc.Vector, "every stored chunk must be embedded")
		assert.NotEmpty(t, doc.SourceFile)
	}
}

func TestIngestDirectoryReplacesCorpus(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# First\n\n### Body\n\noriginal content\n")

	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	_, err = pipeline.IngestDirectory(ctx, dir)
	require.NoError(t, err)

	// Second run with different content replaces, not appends.
	require.NoError(t, os.Remove(filepath.Join(dir, "a.md")))
	writeDoc(t, dir, "b.md", "# Second\n\n### Body\n\nreplacement content\n")
	_, err = pipeline.IngestDirectory(ctx, dir)
	require.NoError(t, err)

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	docs, err := repo.GetAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Second", docs[0].Title)
}

func TestIngestDirectorySkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.md", "# Good\n\n### Body\n\nreadable content\n")
	// A directory with a .md suffix fails os.ReadFile and must be skipped.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "broken.md"), 0o755))

	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer pipeline.Release()

	stored, err := pipeline.IngestDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestIngestDirectoryChunksLongDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "long.md", "# Long\n\n### Body\n\n"+paragraphText(12))

	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder(), WithChunking(200, 40))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	stored, err := pipeline.IngestDirectory(ctx, dir)
	require.NoError(t, err)
	assert.Greater(t, stored, 1)

	docs, err := repo.GetAllDocuments(ctx)
	require.NoError(t, err)
	for _, doc := range docs {
		assert.Equal(t, stored, doc.TotalChunks)
		assert.Equal(t, "Long", doc.Title)
	}
}

func TestIngestDirectoryEmpty(t *testing.T) {
	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.IngestDirectory(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoDocumentsLoaded)
}

func TestIngestDirectoryEmbeddingFailure(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# Doc\n\n### Body\n\ncontent\n")

	embedder := mock.NewMockEmbedder()
	embedder.EmbedDocumentsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, assert.AnError
	}

	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	_, err = pipeline.IngestDirectory(ctx, dir)
	assert.ErrorIs(t, err, assert.AnError)

	// Nothing is stored when embedding fails.
	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEmbedAllSubmitFailure(t *testing.T) {
	repo := newTestRepository(t)
	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	// A released pool rejects every submission; embedAll must surface the
	// error without leaving workers racing on chunk vectors.
	pipeline.Release()

	chunks := []*core.Document{{Title: "Doc", Text: "body", TotalChunks: 1}}
	err = pipeline.embedAll(context.Background(), chunks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to submit embedding batch")
}
