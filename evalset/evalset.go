// Package evalset loads batches of evaluation cases from YAML or JSON
// files, for use with the batch runner.
package evalset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arbiterdev/arbiter/strategy"
)

// Set is a named collection of evaluation cases.
type Set struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Cases       []Case `json:"cases" yaml:"cases"`
}

// Case is one evaluation case. Exactly one request block matching Kind
// must be populated.
type Case struct {
	Name string        `json:"name" yaml:"name"`
	Kind strategy.Kind `json:"kind" yaml:"kind"`

	Single        *strategy.SingleRequest        `json:"single,omitempty" yaml:"single,omitempty"`
	Pairwise      *strategy.PairwiseRequest      `json:"pairwise,omitempty" yaml:"pairwise,omitempty"`
	Comprehensive *strategy.ComprehensiveRequest `json:"comprehensive,omitempty" yaml:"comprehensive,omitempty"`
	Skills        *strategy.SkillsRequest        `json:"skills,omitempty" yaml:"skills,omitempty"`
	Router        *strategy.RouterRequest        `json:"router,omitempty" yaml:"router,omitempty"`
	Trajectory    *strategy.TrajectoryRequest    `json:"trajectory,omitempty" yaml:"trajectory,omitempty"`
	CustomMetric  *strategy.CustomMetricRequest  `json:"custom_metric,omitempty" yaml:"custom_metric,omitempty"`
	Code          *strategy.CodeRequest          `json:"code,omitempty" yaml:"code,omitempty"`
}

// Load reads a set from a .yaml, .yml or .json file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evalset: read %s: %w", path, err)
	}

	var set Set
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("evalset: parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("evalset: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("evalset: unsupported file extension %q", filepath.Ext(path))
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks every case resolves to a valid request.
func (s *Set) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("evalset: set name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("evalset: set %q has no cases", s.Name)
	}
	for i, c := range s.Cases {
		req, err := c.Request()
		if err != nil {
			return fmt.Errorf("evalset: case %d (%s): %w", i, c.Name, err)
		}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("evalset: case %d (%s): %w", i, c.Name, err)
		}
	}
	return nil
}

// Request returns the case's evaluation request.
func (c Case) Request() (strategy.Request, error) {
	switch c.Kind {
	case strategy.KindSingle:
		if c.Single == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Single, nil
	case strategy.KindPairwise:
		if c.Pairwise == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Pairwise, nil
	case strategy.KindComprehensive:
		if c.Comprehensive == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Comprehensive, nil
	case strategy.KindSkills:
		if c.Skills == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Skills, nil
	case strategy.KindRouter:
		if c.Router == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Router, nil
	case strategy.KindTrajectory:
		if c.Trajectory == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Trajectory, nil
	case strategy.KindCustomMetric:
		if c.CustomMetric == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.CustomMetric, nil
	case strategy.KindCode:
		if c.Code == nil {
			return nil, missingBlock(c.Kind)
		}
		return *c.Code, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", c.Kind)
	}
}

// Requests resolves every case into its request, in file order.
func (s *Set) Requests() ([]strategy.Request, error) {
	out := make([]strategy.Request, 0, len(s.Cases))
	for i, c := range s.Cases {
		req, err := c.Request()
		if err != nil {
			return nil, fmt.Errorf("evalset: case %d (%s): %w", i, c.Name, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func missingBlock(kind strategy.Kind) error {
	return fmt.Errorf("kind is %q but the %s block is missing", kind, kind)
}
