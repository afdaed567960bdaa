// Package store persists evaluation judgments. The engine never
// persists on its own: callers pass completed judgments to a Store, or
// use RunAndSave to combine both steps.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arbiterdev/arbiter"
	"github.com/arbiterdev/arbiter/strategy"
	"github.com/arbiterdev/arbiter/trace"
)

// ErrNotFound indicates no judgment exists for the requested ID.
var ErrNotFound = errors.New("store: judgment not found")

// Store is the persistence contract for judgments.
type Store interface {
	// Save persists a judgment. Saving an existing ID overwrites it.
	Save(ctx context.Context, j *arbiter.Judgment) error

	// Get loads a judgment by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*arbiter.Judgment, error)

	// List returns up to limit judgments of the given kind, newest
	// first. An empty kind lists across all kinds.
	List(ctx context.Context, kind strategy.Kind, limit int) ([]*arbiter.Judgment, error)

	// Close releases the store's resources.
	Close() error
}

// Runner runs one evaluation. *arbiter.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, req strategy.Request) (*arbiter.Judgment, error)
}

// RunAndSave evaluates req and persists the judgment. Failed
// evaluations are never persisted.
func RunAndSave(ctx context.Context, runner Runner, st Store, req strategy.Request) (*arbiter.Judgment, error) {
	judgment, err := runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := st.Save(ctx, judgment); err != nil {
		return nil, fmt.Errorf("store: save judgment %s: %w", judgment.ID, err)
	}
	return judgment, nil
}

// record is the serialized judgment shape shared by the SQLite and
// Redis stores. Inputs are kept as raw JSON so the concrete request
// type can be restored from the kind tag on load.
type record struct {
	ID        string           `json:"id"`
	Kind      strategy.Kind    `json:"kind"`
	Inputs    json.RawMessage  `json:"inputs,omitempty"`
	Result    *strategy.Result `json:"result"`
	Trace     []trace.Step     `json:"trace,omitempty"`
	Model     string           `json:"model,omitempty"`
	Duration  time.Duration    `json:"duration"`
	CreatedAt time.Time        `json:"created_at"`
}

func encodeRecord(j *arbiter.Judgment) ([]byte, error) {
	var inputs json.RawMessage
	if j.Inputs != nil {
		raw, err := json.Marshal(j.Inputs)
		if err != nil {
			return nil, fmt.Errorf("store: encode inputs: %w", err)
		}
		inputs = raw
	}
	return json.Marshal(record{
		ID:        j.ID,
		Kind:      j.Kind,
		Inputs:    inputs,
		Result:    j.Result,
		Trace:     j.Trace,
		Model:     j.Model,
		Duration:  j.Duration,
		CreatedAt: j.CreatedAt,
	})
}

func decodeRecord(data []byte) (*arbiter.Judgment, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("store: decode record: %w", err)
	}

	j := &arbiter.Judgment{
		ID:        r.ID,
		Kind:      r.Kind,
		Result:    r.Result,
		Trace:     r.Trace,
		Model:     r.Model,
		Duration:  r.Duration,
		CreatedAt: r.CreatedAt,
	}
	if len(r.Inputs) > 0 {
		req, err := decodeRequest(r.Kind, r.Inputs)
		if err != nil {
			return nil, err
		}
		j.Inputs = req
	}
	return j, nil
}

// decodeRequest restores the concrete request type from its kind tag.
func decodeRequest(kind strategy.Kind, raw json.RawMessage) (strategy.Request, error) {
	unmarshal := func(v any) error {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("store: decode %s request: %w", kind, err)
		}
		return nil
	}

	switch kind {
	case strategy.KindSingle:
		var r strategy.SingleRequest
		return r, unmarshal(&r)
	case strategy.KindPairwise:
		var r strategy.PairwiseRequest
		return r, unmarshal(&r)
	case strategy.KindComprehensive:
		var r strategy.ComprehensiveRequest
		return r, unmarshal(&r)
	case strategy.KindSkills:
		var r strategy.SkillsRequest
		return r, unmarshal(&r)
	case strategy.KindRouter:
		var r strategy.RouterRequest
		return r, unmarshal(&r)
	case strategy.KindTrajectory:
		var r strategy.TrajectoryRequest
		return r, unmarshal(&r)
	case strategy.KindCustomMetric:
		var r strategy.CustomMetricRequest
		return r, unmarshal(&r)
	case strategy.KindCode:
		var r strategy.CodeRequest
		return r, unmarshal(&r)
	default:
		return nil, fmt.Errorf("store: unknown request kind %q", kind)
	}
}
