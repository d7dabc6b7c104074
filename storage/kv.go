package storage

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/meshstack/meshstack/template"
	"github.com/pkg/errors"
)

// The KVBackend is used for persisting key-value data.
type KVBackend interface {
	// Put creates or updates a key.
	Put(ctx context.Context, key string, value []byte) error

	// Get returns the given key. Returns ErrNotFound if the given key does not
	// exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete deletes a key. Returns ErrNotFound if the given key does not exist.
	Delete(ctx context.Context, key string) error

	// Scan returns a key-value map of all keys under the given prefix. The
	// prefix is a path segment; scanning "foo" matches "foo/bar" but not
	// "foobar/baz".
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}

// A Snapshot is the state of a stack as it was last synthesized.
type Snapshot struct {
	Project string    `json:"project"`
	Stack   string    `json:"stack"`
	RunID   string    `json:"run_id"`
	Created time.Time `json:"created"`

	// Resources by name.
	Resources map[string]ResourceState `json:"resources"`

	// Template is the JSON encoded template.
	Template json.RawMessage `json:"template,omitempty"`
}

// ResourceState is the recorded state of a single resource.
type ResourceState struct {
	LogicalID string `json:"logical_id"`
	Type      string `json:"type"`
	Digest    string `json:"digest"`
}

// NewSnapshot creates a snapshot of a synthesized template.
func NewSnapshot(project, stack, runID string, created time.Time, tmpl *template.Template) (*Snapshot, error) {
	j, err := tmpl.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "marshal template")
	}
	digests := tmpl.Digests()
	resources := make(map[string]ResourceState, len(tmpl.Resources))
	for _, r := range tmpl.Resources {
		resources[r.Name] = ResourceState{
			LogicalID: r.LogicalID,
			Type:      r.Type,
			Digest:    digests[r.Name],
		}
	}
	return &Snapshot{
		Project:   project,
		Stack:     stack,
		RunID:     runID,
		Created:   created,
		Resources: resources,
		Template:  j,
	}, nil
}

// Snapshots stores stack snapshots in a key-value backend. Snapshots are
// keyed by project and stack.
type Snapshots struct {
	Backend KVBackend
}

func snapshotKey(project, stack string) (string, error) {
	if err := checkSegment("project", project); err != nil {
		return "", err
	}
	if err := checkSegment("stack", stack); err != nil {
		return "", err
	}
	return project + "/" + stack, nil
}

func checkSegment(kind, name string) error {
	switch {
	case name == "":
		return &KeyError{Key: name, Reason: kind + " name is empty"}
	case strings.Contains(name, "/"):
		return &KeyError{Key: name, Reason: kind + " name contains /"}
	}
	return nil
}

// Put stores a snapshot, replacing any previous snapshot of the same stack.
func (s *Snapshots) Put(ctx context.Context, snap *Snapshot) error {
	k, err := snapshotKey(snap.Project, snap.Stack)
	if err != nil {
		return err
	}
	j, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}
	if err := s.Backend.Put(ctx, k, j); err != nil {
		return errors.Wrap(err, "store")
	}
	return nil
}

// Get returns the snapshot of a stack. Returns ErrNotFound if the stack has
// not been recorded.
func (s *Snapshots) Get(ctx context.Context, project, stack string) (*Snapshot, error) {
	k, err := snapshotKey(project, stack)
	if err != nil {
		return nil, err
	}
	data, err := s.Backend.Get(ctx, k)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "unmarshal snapshot")
	}
	return &snap, nil
}

// Delete deletes the snapshot of a stack.
func (s *Snapshots) Delete(ctx context.Context, project, stack string) error {
	k, err := snapshotKey(project, stack)
	if err != nil {
		return err
	}
	if err := s.Backend.Delete(ctx, k); err != nil {
		return errors.Wrap(err, "delete")
	}
	return nil
}

// List returns all snapshots in a project, sorted by stack name.
func (s *Snapshots) List(ctx context.Context, project string) ([]*Snapshot, error) {
	if err := checkSegment("project", project); err != nil {
		return nil, err
	}
	values, err := s.Backend.Scan(ctx, project)
	if err != nil {
		return nil, errors.Wrap(err, "scan")
	}

	out := make([]*Snapshot, 0, len(values))
	for k, v := range values {
		var snap Snapshot
		if err := json.Unmarshal(v, &snap); err != nil {
			return nil, errors.Wrapf(err, "unmarshal snapshot %s", k)
		}
		out = append(out, &snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stack < out[j].Stack })
	return out, nil
}
