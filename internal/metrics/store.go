package metrics

import "ecommerce-dashboard/internal/models"

// ReportKey identifies a report by the parameters it was computed from.
// PriorYear is zero when no comparison was requested.
type ReportKey struct {
	Dataset   string
	Year      int
	PriorYear int
}

func NewReportKey(dataset string, year int, prior *int) ReportKey {
	k := ReportKey{Dataset: dataset, Year: year}
	if prior != nil {
		k.PriorYear = *prior
	}
	return k
}

// ReportStore holds computed reports for the lifetime of its owner. Entries
// are never evicted and a Put replaces any previous entry. It is not safe
// for concurrent use.
type ReportStore struct {
	reports map[ReportKey]models.Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[ReportKey]models.Report)}
}

func (s *ReportStore) Get(key ReportKey) (models.Report, bool) {
	r, ok := s.reports[key]
	return r, ok
}

func (s *ReportStore) Put(key ReportKey, r models.Report) {
	s.reports[key] = r
}

// GetOrCompute returns the stored report for key, computing and storing it
// on a miss. A failed compute stores nothing. The bool reports a hit.
func (s *ReportStore) GetOrCompute(key ReportKey, compute func() (models.Report, error)) (models.Report, bool, error) {
	if r, ok := s.reports[key]; ok {
		return r, true, nil
	}
	r, err := compute()
	if err != nil {
		return models.Report{}, false, err
	}
	s.reports[key] = r
	return r, false, nil
}

func (s *ReportStore) Len() int {
	return len(s.reports)
}
