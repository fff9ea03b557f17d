package graph

import "sort"

// IDSet - множество идентификаторов пользователей
type IDSet map[uint]struct{}

func NewIDSet(ids ...uint) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

func (s IDSet) Add(ids ...uint) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s)
}

// Union возвращает новое множество s ∪ others...
func (s IDSet) Union(others ...IDSet) IDSet {
	result := make(IDSet, len(s))
	for id := range s {
		result[id] = struct{}{}
	}
	for _, other := range others {
		for id := range other {
			result[id] = struct{}{}
		}
	}
	return result
}

func (s IDSet) Intersect(other IDSet) IDSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	result := make(IDSet)
	for id := range small {
		if large.Has(id) {
			result[id] = struct{}{}
		}
	}
	return result
}

// Difference возвращает s без элементов всех others
func (s IDSet) Difference(others ...IDSet) IDSet {
	result := make(IDSet, len(s))
outer:
	for id := range s {
		for _, other := range others {
			if other.Has(id) {
				continue outer
			}
		}
		result[id] = struct{}{}
	}
	return result
}

// Sorted возвращает элементы по возрастанию
func (s IDSet) Sorted() []uint {
	ids := make([]uint, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
