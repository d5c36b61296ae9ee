package Journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarJournal/Models"
)

func tempService(t *testing.T) *RecordService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "car_records.json")
	return NewRecordService(OpenRecordStore(path))
}

func daysAgo(n int) Models.Date {
	return Models.Date{Time: Models.Today().AddDate(0, 0, -n)}
}

func TestAddRecordAppendsCreatedHistory(t *testing.T) {
	service := tempService(t)

	record := Models.NewCarRecord()
	record.Title = "Замена масла"
	require.NoError(t, service.AddRecord(record))

	assert.NotEmpty(t, record.ID)
	saved, err := service.GetRecordByID(record.ID)
	require.NoError(t, err)
	require.Len(t, saved.History, 1)
	assert.Equal(t, "Запись создана", saved.History[0].Action)
}

func TestUpdateRecordAppendsExactlyOneHistoryEntry(t *testing.T) {
	service := tempService(t)

	record := Models.NewCarRecord()
	record.Title = "Замена масла"
	require.NoError(t, service.AddRecord(record))

	// The caller merges the prior id and history into the replacement
	replacement := record.Clone()
	replacement.Title = "Замена масла и фильтра"
	priorHistory := len(replacement.History)
	require.NoError(t, service.UpdateRecord(replacement))

	updated, err := service.GetRecordByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, updated.ID)
	require.Len(t, updated.History, priorHistory+1)
	assert.Equal(t, "Запись создана", updated.History[0].Action)
	assert.Equal(t, "Запись обновлена", updated.History[priorHistory].Action)
	assert.Equal(t, "Замена масла и фильтра", updated.Title)
}

func TestDeleteRecord(t *testing.T) {
	service := tempService(t)

	record := Models.NewCarRecord()
	require.NoError(t, service.AddRecord(record))
	require.NoError(t, service.DeleteRecord(record.ID))

	_, err := service.GetRecordByID(record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, service.GetAllRecords())
}

func TestCalculateCostPerKmEmptyStore(t *testing.T) {
	service := tempService(t)
	assert.Equal(t, 0.0, service.CalculateCostPerKm())
}

func TestCalculateCostPerKmZeroMileageFloorsDivisor(t *testing.T) {
	service := tempService(t)

	for _, cost := range []float64{100, 250} {
		record := Models.NewCarRecord()
		record.Cost = cost
		require.NoError(t, service.AddRecord(record))
	}

	// All mileages are zero, so the divisor floors at 1
	assert.Equal(t, 350.0, service.CalculateCostPerKm())
}

func TestCalculateCostPerKmUsesMaxMileage(t *testing.T) {
	service := tempService(t)

	first := Models.NewCarRecord()
	first.Cost = 600
	first.Mileage = 10000
	require.NoError(t, service.AddRecord(first))

	second := Models.NewCarRecord()
	second.Cost = 400
	second.Mileage = 20000
	require.NoError(t, service.AddRecord(second))

	assert.InDelta(t, 1000.0/20000.0, service.CalculateCostPerKm(), 1e-9)
}

func TestFindFuelAnomaliesNormalConsumption(t *testing.T) {
	service := tempService(t)

	mileages := []float64{1000, 1100, 1300}
	amounts := []float64{10, 2, 5}
	for i := range mileages {
		require.NoError(t, service.AddRecord(fuelRecord("Заправка", mileages[i], amounts[i])))
	}

	assert.Empty(t, service.FindFuelAnomalies())
}

func TestFindFuelAnomaliesFlagsPoorEfficiency(t *testing.T) {
	service := tempService(t)

	require.NoError(t, service.AddRecord(fuelRecord("Заправка 1", 1000, 40)))
	bad := fuelRecord("Заправка 2", 1010, 10) // 10 km on 10 L = 1 km/L
	require.NoError(t, service.AddRecord(bad))

	anomalies := service.FindFuelAnomalies()
	require.Len(t, anomalies, 1)
	assert.Equal(t, bad.ID, anomalies[0].ID)
}

func TestFindFuelAnomaliesZeroFuelAmountIsAnomalous(t *testing.T) {
	service := tempService(t)

	require.NoError(t, service.AddRecord(fuelRecord("Заправка 1", 1000, 40)))
	zero := fuelRecord("Заправка 2", 1500, 0)
	require.NoError(t, service.AddRecord(zero))

	anomalies := service.FindFuelAnomalies()
	require.Len(t, anomalies, 1)
	assert.Equal(t, zero.ID, anomalies[0].ID)
}

func TestFindFuelAnomaliesFirstRecordNeverFlagged(t *testing.T) {
	service := tempService(t)

	// Alone, even a zero-fuel record has no predecessor to compare against
	require.NoError(t, service.AddRecord(fuelRecord("Заправка", 1000, 0)))
	assert.Empty(t, service.FindFuelAnomalies())
}

func TestFindFuelAnomaliesSortsByMileageNotStoreOrder(t *testing.T) {
	service := tempService(t)

	// Saved out of odometer order; the pairing must follow mileage
	require.NoError(t, service.AddRecord(fuelRecord("Позже", 1010, 10)))
	require.NoError(t, service.AddRecord(fuelRecord("Раньше", 1000, 40)))

	anomalies := service.FindFuelAnomalies()
	require.Len(t, anomalies, 1)
	assert.Equal(t, "Позже", anomalies[0].Title)
}

func TestFindFuelAnomaliesIgnoresOtherTypes(t *testing.T) {
	service := tempService(t)

	repair := Models.NewCarRecord()
	repair.Type = Models.TypeRepair
	repair.Mileage = 1005
	require.NoError(t, service.AddRecord(repair))
	require.NoError(t, service.AddRecord(fuelRecord("Заправка", 1000, 40)))

	assert.Empty(t, service.FindFuelAnomalies())
}

func TestSearchRecords(t *testing.T) {
	service := tempService(t)

	oil := Models.NewCarRecord()
	oil.Title = "Замена МАСЛА"
	oil.Type = Models.TypeMaintenance
	require.NoError(t, service.AddRecord(oil))

	fuel := Models.NewCarRecord()
	fuel.Title = "АЗС"
	fuel.Type = Models.TypeFuel
	require.NoError(t, service.AddRecord(fuel))

	insurance := Models.NewCarRecord()
	insurance.Title = "ОСАГО"
	insurance.Description = "продление полиса"
	insurance.Type = Models.TypeInsurance
	require.NoError(t, service.AddRecord(insurance))

	// Title match, case-insensitive
	found := service.SearchRecords("масло")
	require.Len(t, found, 1)
	assert.Equal(t, oil.ID, found[0].ID)

	// Type display label match
	found = service.SearchRecords("заправка")
	require.Len(t, found, 1)
	assert.Equal(t, fuel.ID, found[0].ID)

	// Description match
	found = service.SearchRecords("полис")
	require.Len(t, found, 1)
	assert.Equal(t, insurance.ID, found[0].ID)

	assert.Empty(t, service.SearchRecords("шиномонтаж"))

	// Literal substring semantics: an empty query matches everything
	assert.Len(t, service.SearchRecords(""), 3)
}

func TestFilterByStatus(t *testing.T) {
	service := tempService(t)

	active := Models.NewCarRecord()
	require.NoError(t, service.AddRecord(active))

	done := Models.NewCarRecord()
	done.Status = Models.StatusCompleted
	require.NoError(t, service.AddRecord(done))

	found := service.FilterByStatus(Models.StatusCompleted)
	require.Len(t, found, 1)
	assert.Equal(t, done.ID, found[0].ID)
}

func TestUpdateStatusesPromotesOverdueActive(t *testing.T) {
	service := tempService(t)

	overdue := Models.NewCarRecord()
	overdue.Title = "Продлить страховку"
	overdue.DueDate = daysAgo(3)
	require.NoError(t, service.AddRecord(overdue))

	changed, err := service.UpdateStatuses()
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	updated, err := service.GetRecordByID(overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusPending, updated.Status)
	require.Len(t, updated.History, 2)
	assert.Equal(t, "Статус изменен на 'В процессе' - просрочено", updated.History[1].Action)
}

func TestUpdateStatusesIsIdempotent(t *testing.T) {
	service := tempService(t)

	overdue := Models.NewCarRecord()
	overdue.DueDate = daysAgo(1)
	require.NoError(t, service.AddRecord(overdue))

	changed, err := service.UpdateStatuses()
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = service.UpdateStatuses()
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	updated, err := service.GetRecordByID(overdue.ID)
	require.NoError(t, err)
	assert.Len(t, updated.History, 2, "no duplicate history entries on re-run")
}

func TestUpdateStatusesLeavesOthersAlone(t *testing.T) {
	service := tempService(t)

	noDue := Models.NewCarRecord()
	require.NoError(t, service.AddRecord(noDue))

	future := Models.NewCarRecord()
	future.DueDate = Models.Date{Time: Models.Today().AddDate(0, 0, 7)}
	require.NoError(t, service.AddRecord(future))

	cancelled := Models.NewCarRecord()
	cancelled.Status = Models.StatusCancelled
	cancelled.DueDate = daysAgo(10)
	require.NoError(t, service.AddRecord(cancelled))

	changed, err := service.UpdateStatuses()
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	for _, record := range service.GetAllRecords() {
		assert.NotEqual(t, Models.StatusPending, record.Status)
		assert.Len(t, record.History, 1)
	}
}

func TestCalculateNextMaintenance(t *testing.T) {
	service := tempService(t)

	last := Models.NewDate(2024, time.February, 1)
	next := service.CalculateNextMaintenance(50000, last)

	// 15000 km at 1500 km/month is 10 months, which beats the 1-year cap
	assert.Equal(t, "2024-12-01", next.String())
}
