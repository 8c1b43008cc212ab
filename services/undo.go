package services

// undoStack is a bounded LIFO of table states. When full, pushing drops the
// oldest state.
type undoStack struct {
	states []Table
	start  int
	size   int
}

const defaultUndoDepth = 50

func newUndoStack(depth int) *undoStack {
	if depth <= 0 {
		depth = defaultUndoDepth
	}
	return &undoStack{states: make([]Table, depth)}
}

func (s *undoStack) push(t Table) {
	capacity := len(s.states)
	idx := (s.start + s.size) % capacity
	s.states[idx] = t.Clone()
	if s.size < capacity {
		s.size++
		return
	}
	s.start = (s.start + 1) % capacity
}

func (s *undoStack) pop() (Table, bool) {
	if s.size == 0 {
		return Table{}, false
	}
	s.size--
	idx := (s.start + s.size) % len(s.states)
	t := s.states[idx]
	s.states[idx] = Table{}
	return t, true
}

func (s *undoStack) len() int {
	return s.size
}
