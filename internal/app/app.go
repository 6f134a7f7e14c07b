// Package app wires the configuration, the document engine, the history
// codec and script commands into the pixelstorm command-line workflow.
package app

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pixelstorm/internal/config"
	"github.com/dshills/pixelstorm/internal/engine"
	"github.com/dshills/pixelstorm/internal/engine/codec"
	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/engine/store"
	"github.com/dshills/pixelstorm/internal/plugin/lua"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// HistoryPath is a saved history to open: a .json, .yaml or .yml file,
	// or a .db/.sqlite history store.
	HistoryPath string

	// DocumentID picks a document from a history store. Empty means the
	// most recently saved one.
	DocumentID string

	// ScriptPath is a Lua script appended to the history as one command.
	ScriptPath string

	// Undo and Redo are the number of undo and redo steps, applied in that
	// order after the script.
	Undo int
	Redo int

	// Hide lists layer indices to hide before rendering.
	Hide []int

	// OutputPath is where the flattened document is written as PNG.
	OutputPath string

	// SavePath is where the resulting history is saved, as a file or into
	// a history store.
	SavePath string

	// Verbose enables debug logging.
	Verbose bool

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application runs one pass over a document: open, edit, render, save.
type Application struct {
	opts Options

	config  *config.Config
	engine  *engine.Engine
	codec   *codec.Codec
	logger  *Logger
	metrics *Metrics

	// docID is kept from an opened history so saves keep its identity.
	docID uuid.UUID
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Undo < 0 || opts.Redo < 0 {
		return nil, fmt.Errorf("%w: negative undo or redo count", ErrInvalidOption)
	}

	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return NewComponentError("config", "load", err)
	}
	app.config = cfg

	// 2. Logger
	level := LogLevelWarn
	if app.opts.Verbose || cfg.Log.Verbose {
		level = LogLevelDebug
	}
	app.logger = NewLogger(LoggerConfig{
		Level:  level,
		Output: app.opts.LogOutput,
		Prefix: "pixelstorm",
	})

	// 3. Codec, with scripts bounded by the configured budget and timeout
	registry := codec.DefaultRegistry()
	registry.Register(lua.KindScript, func() history.Command {
		return app.newScript("", "")
	})
	app.codec = codec.New(registry)

	// 4. History to open
	var snap *history.Snapshot
	if app.opts.HistoryPath != "" {
		doc, err := app.open(app.opts.HistoryPath)
		if err != nil {
			return err
		}
		snap = doc.Snapshot
		app.docID = doc.ID
		app.logger.WithField("id", doc.ID).Info("opened %s: %d commands", app.opts.HistoryPath, len(snap.Commands))
	}

	// 5. Engine
	eng, err := engine.New(app.engineOptions(snap)...)
	if err != nil {
		return NewComponentError("engine", "create", err)
	}
	app.engine = eng

	if snap != nil {
		err := app.timed("load", func() error { return eng.Load(snap) })
		if err != nil {
			return NewComponentError("engine", "load history", err)
		}
	}
	return nil
}

// engineOptions sizes the engine from the opened history when it starts
// with a new-document command, and from the config otherwise.
func (app *Application) engineOptions(snap *history.Snapshot) []engine.Option {
	width, height := app.config.Canvas.Width, app.config.Canvas.Height
	opts := []engine.Option{
		engine.WithSnapshotOrder(app.config.SnapshotOrder()),
		engine.WithLogger(app.logger.WithComponent("history")),
	}

	if snap != nil && snap.Initial != nil {
		if doc, ok := snap.Initial.(*history.NewDocumentCommand); ok && doc.Width > 0 && doc.Height > 0 {
			width, height = doc.Width, doc.Height
		}
		opts = append(opts, engine.WithInitialCommand(snap.Initial))
	} else {
		opts = append(opts, engine.WithBackground(app.config.BackgroundColor()))
	}
	return append(opts, engine.WithSize(width, height))
}

// Run applies the requested edits and writes the outputs.
func (app *Application) Run() error {
	if app.opts.ScriptPath != "" {
		if err := app.runScript(app.opts.ScriptPath); err != nil {
			return NewOperationError("run script", app.opts.ScriptPath, err)
		}
	}

	for i := 0; i < app.opts.Undo; i++ {
		if err := app.timed("undo", app.engine.Undo); err != nil {
			return NewOperationError("undo", strconv.Itoa(i+1), err)
		}
	}
	for i := 0; i < app.opts.Redo; i++ {
		if err := app.timed("redo", app.engine.Redo); err != nil {
			return NewOperationError("redo", strconv.Itoa(i+1), err)
		}
	}

	for _, index := range app.opts.Hide {
		if err := app.engine.SetLayerVisible(index, false); err != nil {
			return NewOperationError("hide layer", strconv.Itoa(index), err)
		}
	}

	if app.opts.OutputPath != "" {
		if err := app.writePNG(app.opts.OutputPath); err != nil {
			return NewOperationError("write png", app.opts.OutputPath, err)
		}
	}
	if app.opts.SavePath != "" {
		if err := app.save(app.opts.SavePath); err != nil {
			return NewOperationError("save history", app.opts.SavePath, err)
		}
	}

	app.logMetrics()
	return nil
}

// Engine returns the document engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Metrics returns the operation timings.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Logger returns the application's logger instance.
func (app *Application) Logger() *Logger {
	return app.logger
}

func (app *Application) newScript(name, source string, opts ...lua.Option) *lua.ScriptCommand {
	opts = append([]lua.Option{
		lua.WithOperationLimit(app.config.Script.OperationLimit),
		lua.WithExecutionTimeout(app.config.ScriptTimeout()),
	}, opts...)
	return lua.NewScriptCommand(name, source, opts...)
}

func (app *Application) runScript(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// A new script gets a fresh seed; it is saved with the history.
	cmd := app.newScript(filepath.Base(path), string(src), lua.WithSeed(time.Now().UnixNano()))
	return app.timed("execute", func() error { return app.engine.Execute(cmd) })
}

func (app *Application) writePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := png.Encode(f, app.engine.Composite()); err != nil {
		return err
	}
	app.logger.Info("wrote %s", path)
	return nil
}

// isStorePath reports whether path names a SQLite history store.
func isStorePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// open reads a document from a history file or store.
func (app *Application) open(path string) (*codec.Document, error) {
	if !isStorePath(path) {
		doc, err := app.codec.Open(path)
		if err != nil {
			return nil, NewComponentError("codec", "open", err)
		}
		return doc, nil
	}

	s, err := store.Open(path, app.codec)
	if err != nil {
		return nil, NewComponentError("store", "open", err)
	}
	defer s.Close()

	ctx := context.Background()
	var doc *codec.Document
	if app.opts.DocumentID == "" {
		doc, err = s.Latest(ctx)
	} else {
		id, perr := uuid.Parse(app.opts.DocumentID)
		if perr != nil {
			return nil, fmt.Errorf("%w: document id: %v", ErrInvalidOption, perr)
		}
		doc, err = s.Get(ctx, id)
	}
	if err != nil {
		return nil, NewComponentError("store", "get", err)
	}
	return doc, nil
}

func (app *Application) save(path string) error {
	doc := codec.NewDocument(app.engine.Snapshot())
	if app.docID != uuid.Nil {
		doc.ID = app.docID
	}

	if isStorePath(path) {
		s, err := store.Open(path, app.codec)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Put(context.Background(), doc); err != nil {
			return err
		}
	} else if err := app.codec.Save(path, doc); err != nil {
		return err
	}
	app.logger.WithField("id", doc.ID).Info("saved %s: %d commands", path, len(doc.Snapshot.Commands))
	return nil
}

// timed runs fn and records its duration under op.
func (app *Application) timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	app.metrics.Record(op, time.Since(start))
	return err
}

func (app *Application) logMetrics() {
	for _, op := range app.metrics.Ops() {
		s := app.metrics.Stats(op)
		app.logger.WithComponent("metrics").Debug("%s: %d calls, avg %v, max %v", op, s.Count, s.Average(), s.Max)
	}
}
