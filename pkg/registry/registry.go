package registry

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/level"
)

// DefaultOrderFile is the name of the persisted order list.
const DefaultOrderFile = "order.cfg"

// Registry reads and writes the order file of one levels directory.
type Registry struct {
	dir       string
	orderFile string
}

// New creates a registry for dir. An empty orderFile uses DefaultOrderFile.
func New(dir, orderFile string) *Registry {
	if orderFile == "" {
		orderFile = DefaultOrderFile
	}
	return &Registry{dir: dir, orderFile: orderFile}
}

// Dir returns the levels directory.
func (r *Registry) Dir() string { return r.dir }

// OrderPath returns the path of the order file.
func (r *Registry) OrderPath() string {
	return filepath.Join(r.dir, r.orderFile)
}

// Recorded returns the names listed in the order file. A missing file is
// an empty list; blank lines are skipped.
func (r *Registry) Recorded() ([]string, error) {
	data, err := os.ReadFile(r.OrderPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read order file")
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Existing returns the names of all level text files in the directory,
// sorted. A missing directory has no levels.
func (r *Registry) Existing() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "scan levels dir")
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != level.TextExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), level.TextExt))
	}
	slices.Sort(names)
	return names, nil
}

// Reconcile computes the canonical order and always writes it back, even
// when it matches what is already stored.
func (r *Registry) Reconcile() ([]string, error) {
	recorded, err := r.Recorded()
	if err != nil {
		return nil, err
	}
	existing, err := r.Existing()
	if err != nil {
		return nil, err
	}

	canonical := Reconcile(recorded, existing)
	if err := r.Write(canonical); err != nil {
		return nil, err
	}
	return canonical, nil
}

// Reorder reconciles, then moves the entry at index one step in dir
// (-1 towards the front, +1 towards the back) and persists the result.
// Moves past either end leave the order unchanged.
func (r *Registry) Reorder(index, dir int) ([]string, error) {
	if err := errors.ValidateDirection(dir); err != nil {
		return nil, err
	}
	order, err := r.Reconcile()
	if err != nil {
		return nil, err
	}
	if !Swap(order, index, dir) {
		return order, nil
	}
	if err := r.Write(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Write persists order, one name per line.
func (r *Registry) Write(order []string) error {
	var b strings.Builder
	for _, name := range order {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create levels dir")
	}
	if err := os.WriteFile(r.OrderPath(), []byte(b.String()), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write order file")
	}
	return nil
}
