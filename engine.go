package transitory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine reconciles ledger grids.
type Engine struct {
	cfg   Config
	notes *NoteExtractor
	log   zerolog.Logger
}

// NewEngine returns an engine for cfg, logging to log.
func NewEngine(cfg Config, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Engine{
		cfg:   cfg,
		notes: NewNoteExtractor(cfg.InvoiceMarkers, cfg.FirstNoteOnly),
		log:   log,
	}, nil
}

// Config returns the configuration of the engine.
func (e *Engine) Config() Config { return e.cfg }

// Transactions resolves the schema of g and returns its normalized
// transactions, notes included.
func (e *Engine) Transactions(g Grid) (*Schema, []Transaction, error) {
	schema, err := ResolveSchema(g, e.cfg.Aliases)
	if err != nil {
		return nil, nil, err
	}
	cols := zerolog.Dict()
	for _, f := range Fields {
		if schema.Columns.Has(f) {
			cols.Str(string(f), schema.ColumnName(f))
		}
	}
	e.log.Debug().Int("header", schema.HeaderRow).Dict("columns", cols).Int("rows", len(schema.Table.Rows)).Msg("schema resolved")

	entries, orphans := Consolidate(schema.Table, schema.Columns)
	for _, i := range orphans {
		e.log.Warn().Int("row", i).Str("narration", schema.Columns.Cell(schema.Table.Rows[i], FieldHist).String()).Msg("continuation row before any dated row dropped")
	}

	txs, dropped := Normalize(entries, schema.Columns)
	for i := range txs {
		txs[i].NoteIDs = e.notes.Extract(txs[i].Narration)
		txs[i].NoteID = NoNote
		if len(txs[i].NoteIDs) > 0 {
			txs[i].NoteID = txs[i].NoteIDs[0]
		}
	}
	e.log.Debug().Int("entries", len(entries)).Int("transactions", len(txs)).Int("dropped", dropped).Msg("ledger normalized")
	return schema, txs, nil
}

// Reconcile runs the whole pipeline on g.
func (e *Engine) Reconcile(g Grid) (*Report, error) {
	schema, txs, err := e.Transactions(g)
	if err != nil {
		return nil, err
	}
	eps := e.cfg.Epsilon

	agg := Aggregate(txs, eps)
	attributions := AttributeDays(agg, eps)
	for _, a := range attributions {
		e.log.Info().
			Stringer("day", a.Day).
			Str("difference", a.Target.StringFixed(2)).
			Stringer("method", a.Method).
			Strs("notes", a.NoteIDs).
			Msg("unbalanced day")
	}

	r := Assemble(txs, agg, attributions, eps)
	r.RunID = uuid.NewString()
	r.HeaderRow = schema.HeaderRow
	r.Columns = make(map[Field]string, len(schema.Columns))
	for f := range schema.Columns {
		r.Columns[f] = schema.ColumnName(f)
	}
	e.log.Debug().Str("run", r.RunID).Int("days", len(r.DailyTotals)).Int("unbalanced", len(r.UnbalancedDays)).Msg("report assembled")
	return r, nil
}
