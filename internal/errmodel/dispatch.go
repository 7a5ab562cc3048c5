package errmodel

type route struct {
	read Read
	side Side
}

// route picks the matrix side of each present mate. ok is false when a mate
// is longer than MaxReadLen; such hits are neither scored nor learned from.
//
// Unpaired reads are scored on the side named by their orphan flag but, unless
// trainOrphansBySide is set, always trained on the left side.
func (m *Model) route(h Hit, training bool) (routes []route, ok bool) {
	r1, r2 := h.Mates()
	for _, r := range [...]Read{r1, r2} {
		if r != nil && r.Len() > m.cfg.MaxReadLen {
			return nil, false
		}
	}

	if !h.IsPaired() {
		rd := r1
		if rd == nil {
			rd = r2
		}
		if rd == nil {
			return nil, true
		}
		side := Right
		if h.IsLeftOrphan() || (training && !m.trainOrphansBySide) {
			side = Left
		}
		return []route{{rd, side}}, true
	}

	// the mate aligned further upstream is the left one, whichever was
	// sequenced first; a missing mate keeps the sequencing order
	left, right := r1, r2
	if r1 != nil && r2 != nil && !(r1.Pos() < r2.Pos()) {
		left, right = r2, r1
	}
	routes = make([]route, 0, 2)
	if left != nil {
		routes = append(routes, route{left, Left})
	}
	if right != nil {
		routes = append(routes, route{right, Right})
	}
	return routes, true
}
