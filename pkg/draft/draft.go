package draft

import (
	"github.com/shopspring/decimal"
)

// Line is one (material, quantity) pair accumulated in a draft
type Line struct {
	MaterialID   uint
	MaterialName string
	UnitPrice    decimal.Decimal
	RequestedQty int
}

// MaterialRef is the catalog projection a draft needs to price a line
type MaterialRef struct {
	ID        uint
	Name      string
	UnitPrice decimal.Decimal
}

// Draft accumulates selected materials and quantities before submission.
// It holds no persistence; state is discarded unless submitted.
type Draft struct {
	lines []Line
	index map[uint]int // materialID -> position in lines
}

// New returns an empty draft
func New() *Draft {
	return &Draft{index: make(map[uint]int)}
}

// AddMaterial appends a line with quantity 1; adding an already-present
// material is a no-op.
func (d *Draft) AddMaterial(m MaterialRef) {
	if _, ok := d.index[m.ID]; ok {
		return
	}
	d.index[m.ID] = len(d.lines)
	d.lines = append(d.lines, Line{
		MaterialID:   m.ID,
		MaterialName: m.Name,
		UnitPrice:    m.UnitPrice,
		RequestedQty: 1,
	})
}

// UpdateQuantity sets the requested quantity for a material; a quantity of
// zero or less removes the line.
func (d *Draft) UpdateQuantity(materialID uint, qty int) {
	pos, ok := d.index[materialID]
	if !ok {
		return
	}
	if qty <= 0 {
		d.removeAt(pos)
		return
	}
	d.lines[pos].RequestedQty = qty
}

// RemoveMaterial removes the line unconditionally
func (d *Draft) RemoveMaterial(materialID uint) {
	if pos, ok := d.index[materialID]; ok {
		d.removeAt(pos)
	}
}

func (d *Draft) removeAt(pos int) {
	removed := d.lines[pos]
	d.lines = append(d.lines[:pos], d.lines[pos+1:]...)
	delete(d.index, removed.MaterialID)
	for i := pos; i < len(d.lines); i++ {
		d.index[d.lines[i].MaterialID] = i
	}
}

// Lines returns the accumulated lines in insertion order
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of accumulated lines
func (d *Draft) Len() int {
	return len(d.lines)
}

// TotalValue is the derived sum of unitPrice x requestedQty over all lines,
// recomputed on every call.
func (d *Draft) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.RequestedQty))))
	}
	return total
}
