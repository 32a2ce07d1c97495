package prune

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/jsprune/pkg/ast"
)

// Candidate is a named library function eligible for removal.
type Candidate struct {
	ID      ast.NodeID
	Name    string
	Aliases []string
	Form    Form
	Line    int
	// Seq is the registration index; it is stable for the whole run.
	Seq uint32
}

// Registry holds the candidates discovered in the library tree, in
// registration order.
type Registry struct {
	tree    *ast.Tree
	cands   []*Candidate
	byAlias map[string][]*Candidate
	live    *roaring.Bitmap
	next    uint32
}

// NewRegistry creates an empty registry for candidates of tree.
func NewRegistry(tree *ast.Tree) *Registry {
	return &Registry{
		tree:    tree,
		byAlias: make(map[string][]*Candidate),
		live:    roaring.New(),
	}
}

// Register adds fn as a candidate. It returns nil when fn has no name.
func (r *Registry) Register(fn ast.NodeID) *Candidate {
	aliases := ResolveAllNames(r.tree, fn)
	if len(aliases) == 0 {
		return nil
	}
	c := &Candidate{
		ID:      fn,
		Name:    aliases[0],
		Aliases: aliases,
		Form:    formOf(r.tree, fn),
		Line:    r.tree.Node(fn).Line,
		Seq:     r.next,
	}
	r.next++
	r.cands = append(r.cands, c)
	for _, a := range aliases {
		r.byAlias[a] = append(r.byAlias[a], c)
	}
	r.live.Add(c.Seq)
	return c
}

// Match returns every registered candidate with name among its aliases.
func (r *Registry) Match(name string) []*Candidate {
	var out []*Candidate
	for _, c := range r.byAlias[name] {
		if r.live.Contains(c.Seq) {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether c is still registered.
func (r *Registry) Contains(c *Candidate) bool {
	return r.live.Contains(c.Seq)
}

// Remove drops c from the registry. Removed candidates are never
// examined again.
func (r *Registry) Remove(c *Candidate) {
	r.live.Remove(c.Seq)
}

// Candidates returns the registered candidates in registration order.
func (r *Registry) Candidates() []*Candidate {
	out := make([]*Candidate, 0, r.live.GetCardinality())
	for _, c := range r.cands {
		if r.live.Contains(c.Seq) {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered candidates.
func (r *Registry) Len() int {
	return int(r.live.GetCardinality())
}

// Names returns the canonical names of registered candidates in
// registration order.
func (r *Registry) Names() []string {
	cands := r.Candidates()
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	return names
}

// KeptSet is the set of candidates proven reachable in one pass.
type KeptSet struct {
	bits *roaring.Bitmap
}

// NewKeptSet creates an empty set.
func NewKeptSet() *KeptSet {
	return &KeptSet{bits: roaring.New()}
}

// Add marks c as kept and reports whether it was newly added.
func (k *KeptSet) Add(c *Candidate) bool {
	return k.bits.CheckedAdd(c.Seq)
}

// Remove unmarks c.
func (k *KeptSet) Remove(c *Candidate) {
	k.bits.Remove(c.Seq)
}

// Has reports whether c is kept.
func (k *KeptSet) Has(c *Candidate) bool {
	return k.bits.Contains(c.Seq)
}

// Len returns the number of kept candidates.
func (k *KeptSet) Len() int {
	return int(k.bits.GetCardinality())
}
