package Journal

import (
	"sort"
	"strings"

	"CarJournal/Models"
)

// History notes written by the service. These are user-visible journal text
// carried over from the desktop application, so they stay in Russian.
const (
	historyCreated = "Запись создана"
	historyUpdated = "Запись обновлена"
	historyOverdue = "Статус изменен на 'В процессе' - просрочено"
)

// fuelAnomalyThreshold is the efficiency floor in km per liter. 5 km/L is
// the same consumption as 20 L/100km; anything worse gets flagged.
const fuelAnomalyThreshold = 5.0

// Maintenance interval assumptions: service every 15000 km or one year,
// whichever comes first, projected at an average 1500 km per month.
const (
	maintenanceIntervalKm = 15000
	avgMonthlyMileageKm   = 1500
)

// RecordService layers analytics and lifecycle logic over the record store.
// It keeps no state of its own; every call reads through to the store.
type RecordService struct {
	store *RecordStore
}

func NewRecordService(store *RecordStore) *RecordService {
	return &RecordService{store: store}
}

// GetAllRecords returns every journal entry in store order.
func (s *RecordService) GetAllRecords() []Models.CarRecord {
	return s.store.FindAll()
}

// GetRecordByID returns one entry, or ErrNotFound.
func (s *RecordService) GetRecordByID(id string) (Models.CarRecord, error) {
	return s.store.FindByID(id)
}

// AddRecord notes the creation in the record's history and saves it. The
// store assigns the identifier; the caller sees it on the passed record.
func (s *RecordService) AddRecord(record *Models.CarRecord) error {
	record.AddHistoryEntry(historyCreated)
	return s.store.Save(record)
}

// UpdateRecord notes the update in the record's history and replaces the
// stored entry with the same identifier. The caller must have merged the
// prior record's identifier and history into the replacement first; the
// service does not fetch the prior record itself.
func (s *RecordService) UpdateRecord(record Models.CarRecord) error {
	record.AddHistoryEntry(historyUpdated)
	return s.store.Update(record)
}

// DeleteRecord removes an entry. Unknown identifiers are a no-op.
func (s *RecordService) DeleteRecord(id string) error {
	return s.store.Delete(id)
}

// SearchRecords returns entries whose title, description or type label
// contains the query, ignoring case, in store order. The match is literal
// substring search — an empty query matches every record, and the boundary
// layer decides what a blank query means to the user.
func (s *RecordService) SearchRecords(query string) []Models.CarRecord {
	needle := strings.ToLower(query)
	out := []Models.CarRecord{}
	for _, record := range s.store.FindAll() {
		if strings.Contains(strings.ToLower(record.Title), needle) ||
			strings.Contains(strings.ToLower(record.Description), needle) ||
			strings.Contains(strings.ToLower(record.Type.DisplayName()), needle) {
			out = append(out, record)
		}
	}
	return out
}

// FilterByStatus returns entries in the given lifecycle state.
func (s *RecordService) FilterByStatus(status Models.RecordStatus) []Models.CarRecord {
	return s.store.FindByStatus(string(status))
}

// FilterByType returns entries of the given type.
func (s *RecordService) FilterByType(recordType Models.RecordType) []Models.CarRecord {
	return s.store.FindByType(string(recordType))
}

// CalculateCostPerKm is aggregate spend divided by the highest recorded
// odometer reading — a coarse cost-of-ownership figure. An empty journal
// yields 0. When no record carries a mileage the divisor floors at 1, so
// the result degrades to the total cost instead of dividing by zero.
func (s *RecordService) CalculateCostPerKm() float64 {
	records := s.store.FindAll()
	if len(records) == 0 {
		return 0.0
	}

	totalCost := 0.0
	maxMileage := 0.0
	for _, record := range records {
		totalCost += record.Cost
		if record.Mileage > maxMileage {
			maxMileage = record.Mileage
		}
	}
	if maxMileage == 0 {
		maxMileage = 1.0
	}
	return totalCost / maxMileage
}

// FindFuelAnomalies flags fuel purchases whose implied efficiency since the
// previous fill-up falls below the threshold. Fuel records are ordered by
// odometer reading; for each consecutive pair the distance covered is
// divided by the later record's fuel amount to get km per liter. The first
// fill-up has no predecessor and is never flagged. A fuel amount of zero
// would divide to infinity, so it is flagged outright.
func (s *RecordService) FindFuelAnomalies() []Models.CarRecord {
	fuelRecords := s.store.FindByType(string(Models.TypeFuel))
	sort.SliceStable(fuelRecords, func(i, j int) bool {
		return fuelRecords[i].Mileage < fuelRecords[j].Mileage
	})

	anomalies := []Models.CarRecord{}
	for i := 1; i < len(fuelRecords); i++ {
		current := fuelRecords[i]
		previous := fuelRecords[i-1]

		if current.FuelAmount == 0 {
			anomalies = append(anomalies, current)
			continue
		}

		distance := current.Mileage - previous.Mileage
		efficiency := distance / current.FuelAmount
		if efficiency < fuelAnomalyThreshold {
			anomalies = append(anomalies, current)
		}
	}
	return anomalies
}

// UpdateStatuses promotes every ACTIVE record whose due date has passed to
// PENDING, noting the change in its history. Returns how many records were
// promoted. Running the sweep again is a no-op for records it already
// promoted, since only ACTIVE records qualify.
func (s *RecordService) UpdateStatuses() (int, error) {
	today := Models.Today()
	changed := 0

	for _, record := range s.store.FindAll() {
		if record.DueDate.IsZero() || record.Status != Models.StatusActive {
			continue
		}
		if !record.DueDate.Before(today.Time) {
			continue
		}

		record.Status = Models.StatusPending
		record.AddHistoryEntry(historyOverdue)
		if err := s.store.Update(record); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// CalculateNextMaintenance predicts the next service date: the earlier of
// one year after the last service and the date the next 15000 km are
// expected to be on the odometer, assuming 1500 km driven per month. The
// projection uses the assumed rate only — currentMileage sets the odometer
// baseline but does not shift the date, matching the original estimator.
func (s *RecordService) CalculateNextMaintenance(currentMileage float64, lastMaintenance Models.Date) Models.Date {
	byTime := Models.Date{Time: lastMaintenance.AddDate(1, 0, 0)}

	monthsToMileage := maintenanceIntervalKm / avgMonthlyMileageKm
	byMileage := Models.Date{Time: lastMaintenance.AddDate(0, monthsToMileage, 0)}

	if byTime.Before(byMileage.Time) {
		return byTime
	}
	return byMileage
}
