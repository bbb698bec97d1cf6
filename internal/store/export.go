// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ExportFile is the JSON document written by Export: one run with its
// obligations, using the pipeline entity schema.
type ExportFile struct {
	Run         RunInfo            `json:"run"`
	Obligations []StoredObligation `json:"obligations"`
}

// Export writes a stored run as indented JSON. A zero runID exports the
// most recent run.
func (s *Store) Export(ctx context.Context, runID int64, w io.Writer) error {
	if runID == 0 {
		var err error
		runID, err = s.latestRunID(ctx)
		if err != nil {
			return err
		}
	}

	var run RunInfo
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document, as_of, created_at, total, missed, due_soon, risk_index
		 FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Document, &run.AsOf, &run.CreatedAt,
			&run.Total, &run.Missed, &run.DueSoon, &run.RiskIndex)
	if err != nil {
		return fmt.Errorf("loading run %d: %w", runID, err)
	}

	obs, err := s.Retrieve(ctx, Filter{RunID: runID})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportFile{Run: run, Obligations: obs})
}
