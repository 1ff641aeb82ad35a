package usecase

import (
	"errors"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"imgsim/internal/adapter/embedding"
	"imgsim/internal/domain"
	"imgsim/internal/port"
)

// Session owns the store handle and the id-to-path table for the duration
// of one indexing/query session. All state is explicit; there is no ambient
// process-wide state.
type Session struct {
	store    port.VectorStore
	embedder *embedding.ImageEmbedder
	lister   port.ImageLister

	paths map[domain.RecordID]string
	ready bool
}

func NewSession(store port.VectorStore, embedder *embedding.ImageEmbedder, lister port.ImageLister) *Session {
	return &Session{
		store:    store,
		embedder: embedder,
		lister:   lister,
		paths:    make(map[domain.RecordID]string),
	}
}

// Open loads the persisted store. A load failure is recovered by continuing
// with a fresh empty store at the same path and dimension; the session never
// fails to open. After a successful load the id-to-path table is rebuilt
// from each record's persisted metadata.
func (s *Session) Open() error {
	if err := s.store.Load(); err != nil {
		var loadErr *domain.StoreLoadError
		if !errors.As(err, &loadErr) {
			return err
		}
		zlog.Warn().Err(err).Msg("store load failed, starting with an empty store")
		s.store.Reset()
	}

	s.paths = make(map[domain.RecordID]string)
	s.store.Each(func(id domain.RecordID, meta domain.Metadata) {
		if p, ok := meta[domain.MetaPath]; ok {
			s.paths[id] = p
		}
	})
	s.ready = true
	return nil
}

// IndexReport summarizes a bulk indexing run.
type IndexReport struct {
	FilesFound int
	Indexed    int
	Failed     int
	Errors     []string
}

// ProgressFunc reports bulk indexing progress. done is the number of files
// already processed out of total.
type ProgressFunc func(done, total int, file string)

// IndexFolder embeds and inserts every recognized image file directly inside
// dir. Any previously held records are discarded first: indexing a folder is
// a full re-index, not an incremental merge. A file that fails to decode,
// embed or insert is logged and skipped; it never aborts the batch. The
// store is saved afterwards unconditionally, even when nothing was inserted,
// to keep the file consistent with the in-memory state.
//
// When the folder contains no image files the store is left untouched and
// FilesFound is zero.
func (s *Session) IndexFolder(dir string, progress ProgressFunc) (*IndexReport, error) {
	files, err := s.lister.List(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	report := &IndexReport{FilesFound: len(files)}
	if len(files) == 0 {
		return report, nil
	}

	s.store.Reset()
	s.paths = make(map[domain.RecordID]string)
	s.ready = true

	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file)
		}

		emb, err := s.embedder.EmbedFile(file)
		if err != nil {
			zlog.Error().Err(err).Str("file", file).Msg("skipping file")
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", file, err))
			continue
		}

		id, err := s.store.Insert(emb, domain.Metadata{domain.MetaPath: file})
		if err != nil {
			zlog.Error().Err(err).Str("file", file).Msg("skipping file")
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", file, err))
			continue
		}

		s.paths[id] = file
		report.Indexed++
	}
	if progress != nil {
		progress(len(files), len(files), "")
	}

	if err := s.store.Save(); err != nil {
		return report, err
	}
	return report, nil
}

// Query embeds the image at path and returns its k nearest records, ordered
// by ascending distance. Fails fast with ErrNotReady when no store is open;
// a decode or inference failure on the query image aborts the query.
func (s *Session) Query(path string, k int) ([]domain.QueryResult, error) {
	if !s.ready {
		return nil, domain.ErrNotReady
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	emb, err := s.embedder.EmbedFile(path)
	if err != nil {
		return nil, err
	}

	return s.store.Query(emb, k, port.IncludeAll)
}

// Save explicitly persists the store. Returns ErrNotReady when no store is
// open; nothing is written in that case.
func (s *Session) Save() error {
	if !s.ready {
		return domain.ErrNotReady
	}
	return s.store.Save()
}

// Count returns the number of records currently held by the store.
func (s *Session) Count() int {
	return s.store.Count()
}

// PathFor resolves a record id through the session's in-memory path table.
func (s *Session) PathFor(id domain.RecordID) (string, bool) {
	p, ok := s.paths[id]
	return p, ok
}
