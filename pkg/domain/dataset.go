package domain

// Dataset is a shared, read-only training dataset.
type Dataset struct {
	DatasetId string
	Name      string

	// number of records in the dataset.
	Size int

	// labels the dataset provides ground truth for.
	LabelDescriptors []string
}

// Histogram is the value distribution of one dataset label.
type Histogram struct {
	BinEdges []float64
	Buckets  []int
}
