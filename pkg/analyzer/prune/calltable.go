package prune

// CallRecord counts the observed usages of one name.
type CallRecord struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	// Extern records are roots regardless of their count.
	Extern bool `json:"extern,omitempty"`
}

// Live reports whether the record still roots reachability.
func (r *CallRecord) Live() bool {
	return r.Extern || r.Count >= 1
}

// CallTable maps names to their usage counts. One table is shared by
// application and library collection for the whole run.
type CallTable struct {
	records map[string]*CallRecord
	order   []string
}

// NewCallTable creates an empty table.
func NewCallTable() *CallTable {
	return &CallTable{records: make(map[string]*CallRecord)}
}

// Add records one usage of name.
func (t *CallTable) Add(name string) {
	t.AddN(name, 1)
}

// AddN records n usages of name.
func (t *CallTable) AddN(name string, n int) {
	if name == "" || n <= 0 {
		return
	}
	rec, ok := t.records[name]
	if !ok {
		rec = &CallRecord{Name: name}
		t.records[name] = rec
		t.order = append(t.order, name)
	}
	rec.Count += n
}

// AddExtern records name as always reachable.
func (t *CallTable) AddExtern(name string) {
	if name == "" {
		return
	}
	t.Add(name)
	t.records[name].Extern = true
}

// Get returns the record for name, or nil.
func (t *CallTable) Get(name string) *CallRecord {
	return t.records[name]
}

// Count returns the usage count of name, 0 when unrecorded.
func (t *CallTable) Count(name string) int {
	if rec, ok := t.records[name]; ok {
		return rec.Count
	}
	return 0
}

// Live reports whether name is currently a reachability root.
func (t *CallTable) Live(name string) bool {
	rec, ok := t.records[name]
	return ok && rec.Live()
}

// Decrement subtracts by from name's count, clamping at zero, and returns
// the new count. Unknown names are ignored.
func (t *CallTable) Decrement(name string, by int) int {
	rec, ok := t.records[name]
	if !ok {
		return 0
	}
	rec.Count -= by
	if rec.Count < 0 {
		rec.Count = 0
	}
	return rec.Count
}

// Names returns every recorded name in first-seen order.
func (t *CallTable) Names() []string {
	return t.order
}

// Records returns copies of every record in first-seen order.
func (t *CallTable) Records() []CallRecord {
	out := make([]CallRecord, len(t.order))
	for i, name := range t.order {
		out[i] = *t.records[name]
	}
	return out
}

// Len returns the number of distinct names.
func (t *CallTable) Len() int {
	return len(t.order)
}

// usage is one name with the number of times a subtree uses it.
type usage struct {
	name  string
	count int
}

// usageList accumulates counts while preserving first-seen order.
type usageList struct {
	index map[string]int
	items []usage
}

func (l *usageList) Add(name string) {
	if name == "" {
		return
	}
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[name]; ok {
		l.items[i].count++
		return
	}
	l.index[name] = len(l.items)
	l.items = append(l.items, usage{name: name, count: 1})
}
