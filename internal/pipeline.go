package internal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ReportExporter writes one chat detail record. Satisfied by the
// exporters in internal/export; declared here so the pipeline stays
// decoupled from the format implementations.
type ReportExporter interface {
	Export(report *ChatReport, w io.Writer) error
	Extension() string
}

// RunResult summarizes one generation run.
type RunResult struct {
	Window       Window
	Users        []*UserStats
	ChatsSkipped int // chats dropped for malformed payloads
	FilesCreated int
}

// Pipeline runs one end-to-end generation: query yesterday's chats,
// aggregate and roll up, attach assessments, persist report records.
type Pipeline struct {
	cfg      *Config
	assessor *Assessor
	exporter ReportExporter
}

// NewPipeline wires a pipeline around the given provider and exporter.
// Tests substitute both to avoid real network and format concerns.
func NewPipeline(cfg *Config, provider AssessmentProvider, exporter ReportExporter) *Pipeline {
	pacer := Pacer(FixedIntervalPacer{Interval: cfg.Assessment.Pause})
	if cfg.Assessment.Pause == 0 {
		pacer = NopPacer{}
	}

	return &Pipeline{
		cfg:      cfg,
		assessor: NewAssessor(provider, pacer, cfg.Assessment.CallTimeout),
		exporter: exporter,
	}
}

// Run executes one generation for the calendar day preceding now. The
// window is computed exactly once here and threaded through filtering,
// naming, and persistence.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	window := PreviousDay(now)
	LogInfo("generating reports for %s (window %d..%d)", window.Date, window.Start, window.End)

	db, err := OpenDatabase(p.cfg.Database.Path)
	if err != nil {
		// Unreachable store before any per-chat work: fatal.
		return nil, err
	}
	defer db.Close()

	records, err := QueryRecentChats(db, window)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Window: window}
	if len(records) == 0 {
		LogInfo("no chat activity found for %s", window.Date)
		return result, nil
	}
	LogInfo("found %d chat(s) for %s", len(records), window.Date)

	rollup, skipped := p.aggregate(records, window)
	result.ChatsSkipped = skipped
	result.Users = rollup.Users()

	store := NewStore(p.cfg.Reports.Dir, window.Date)
	filesCreated, err := p.assessAndPersist(ctx, store, result.Users)
	if err != nil {
		return nil, err
	}
	result.FilesCreated = filesCreated

	if err := store.WriteProcessingOverview(result.Users, filesCreated); err != nil {
		return nil, err
	}
	result.FilesCreated++

	return result, nil
}

// aggregate folds raw records into the per-user rollup. Parse failures
// are contained to their chat and counted, never fatal.
func (p *Pipeline) aggregate(records []RawChatRecord, window Window) (*Rollup, int) {
	aggregator := NewAggregator()
	rollup := NewRollup()
	skipped := 0

	for _, record := range records {
		chat, err := aggregator.AggregateChat(record, window)
		if err != nil {
			LogError("%v", err)
			skipped++
			continue
		}
		rollup.Add(record, chat)
	}

	return rollup, skipped
}

// assessAndPersist walks users in rollup order and chats in arrival
// order, attaching assessments and writing each detail record right
// after its assessment so a mid-run failure leaves completed chats on
// disk. Returns the number of files written.
func (p *Pipeline) assessAndPersist(ctx context.Context, store *Store, users []*UserStats) (int, error) {
	files := 0

	for _, user := range users {
		LogInfo("processing user %s (%d chats)", user.UserName, len(user.Chats))

		dir, err := store.UserDir(user.UserID)
		if err != nil {
			return files, err
		}

		for i, chat := range user.Chats {
			if err := ctx.Err(); err != nil {
				return files, err
			}

			p.assessor.Attach(ctx, chat)

			path := filepath.Join(dir, ChatFileName(i+1, chat.Title, p.exporter.Extension()))
			if err := p.writeChatReport(path, BuildChatReport(user, chat)); err != nil {
				return files, err
			}
			files++
			LogDebug("wrote %s", path)
		}

		if err := store.WriteUserSummary(BuildUserSummary(user, p.exporter.Extension())); err != nil {
			return files, err
		}
		files++
	}

	return files, nil
}

func (p *Pipeline) writeChatReport(path string, report *ChatReport) error {
	f, err := os.Create(path)
	if err != nil {
		return &ReportError{Path: path, Err: err}
	}
	defer f.Close()

	if err := p.exporter.Export(report, f); err != nil {
		return &ReportError{Path: path, Err: err}
	}
	return nil
}
