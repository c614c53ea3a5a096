package progress

// View says which percentages a bar shows. A single item drives both the
// fill and the number; inside an aggregated batch the fill still tracks the
// item while the number tracks the batch.
type View interface {
	Percents() (fill, display int)
}

// PerItemView shows one item's percentage.
type PerItemView struct {
	Percent int
}

// Percents implements View.
func (v PerItemView) Percents() (int, int) {
	return v.Percent, v.Percent
}

// AggregateView fills by item and labels by batch.
type AggregateView struct {
	ItemPercent  int
	BatchPercent int
}

// Percents implements View.
func (v AggregateView) Percents() (int, int) {
	return v.ItemPercent, v.BatchPercent
}
