package Controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"CarJournal/Journal"
	"CarJournal/Models"
)

// RecordController handles the journal API endpoints. All data access goes
// through the service; the controller owns input parsing and validation.
type RecordController struct {
	Service  *Journal.RecordService
	validate *validator.Validate
}

// NewRecordController creates a new RecordController.
func NewRecordController(service *Journal.RecordService) *RecordController {
	return &RecordController{
		Service:  service,
		validate: validator.New(),
	}
}

// RecordInput is the request body for creating or replacing a record.
// Numeric fields arrive as user-entered text and degrade to 0 when
// unparsable instead of failing the request.
type RecordInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,oneof=MAINTENANCE REPAIR FUEL INSURANCE OTHER"`
	Cost        string `json:"cost"`
	Mileage     string `json:"mileage"`
	Date        string `json:"date" validate:"required"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED PENDING CANCELLED"`
	Priority    string `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	FuelAmount  string `json:"fuelAmount"`
	FuelPrice   string `json:"fuelPrice"`
}

// recordView is a record plus the localized labels the clients render.
type recordView struct {
	Models.CarRecord
	TypeLabel     string `json:"typeLabel"`
	StatusLabel   string `json:"statusLabel"`
	PriorityLabel string `json:"priorityLabel"`
}

func viewOf(record Models.CarRecord) recordView {
	return recordView{
		CarRecord:     record,
		TypeLabel:     record.Type.DisplayName(),
		StatusLabel:   record.Status.DisplayName(),
		PriorityLabel: record.Priority.DisplayName(),
	}
}

func viewsOf(records []Models.CarRecord) []recordView {
	views := make([]recordView, 0, len(records))
	for _, record := range records {
		views = append(views, viewOf(record))
	}
	return views
}

// parseFloatOrZero parses user-entered numeric text, falling back to 0.
func parseFloatOrZero(s string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0.0
	}
	return value
}

// toRecord builds a CarRecord from validated input.
func (input *RecordInput) toRecord() (*Models.CarRecord, error) {
	date, err := Models.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	dueDate, err := Models.ParseDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	record := Models.NewCarRecord()
	record.Title = input.Title
	record.Description = input.Description
	record.Type = Models.RecordType(strings.ToUpper(input.Type))
	record.Cost = parseFloatOrZero(input.Cost)
	record.Mileage = parseFloatOrZero(input.Mileage)
	record.Date = date
	record.DueDate = dueDate
	record.FuelAmount = parseFloatOrZero(input.FuelAmount)
	record.FuelPrice = parseFloatOrZero(input.FuelPrice)
	if input.Status != "" {
		record.Status = Models.RecordStatus(strings.ToUpper(input.Status))
	}
	if input.Priority != "" {
		record.Priority = Models.Priority(strings.ToUpper(input.Priority))
	}
	return record, nil
}

func (rc *RecordController) parseInput(ctx *fiber.Ctx) (*RecordInput, error) {
	var input RecordInput
	if err := ctx.BodyParser(&input); err != nil {
		return nil, err
	}
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))
	input.Status = strings.ToUpper(strings.TrimSpace(input.Status))
	input.Priority = strings.ToUpper(strings.TrimSpace(input.Priority))
	if err := rc.validate.Struct(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

// GetRecords lists the journal. Supports ?query= substring search (a blank
// query lists everything), ?status= and ?type= filters.
func (rc *RecordController) GetRecords(ctx *fiber.Ctx) error {
	if status := ctx.Query("status"); status != "" {
		records := rc.Service.FilterByStatus(Models.RecordStatus(strings.ToUpper(status)))
		return ctx.JSON(viewsOf(records))
	}
	if recordType := ctx.Query("type"); recordType != "" {
		records := rc.Service.FilterByType(Models.RecordType(strings.ToUpper(recordType)))
		return ctx.JSON(viewsOf(records))
	}
	if query := strings.TrimSpace(ctx.Query("query")); query != "" {
		return ctx.JSON(viewsOf(rc.Service.SearchRecords(query)))
	}
	return ctx.JSON(viewsOf(rc.Service.GetAllRecords()))
}

// GetRecord retrieves a single record by ID.
func (rc *RecordController) GetRecord(ctx *fiber.Ctx) error {
	record, err := rc.Service.GetRecordByID(ctx.Params("id"))
	if err != nil {
		if errors.Is(err, Journal.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve record"})
	}
	return ctx.JSON(viewOf(record))
}

// CreateRecord adds a new journal entry. The store assigns the identifier,
// which is returned in the response.
func (rc *RecordController) CreateRecord(ctx *fiber.Ctx) error {
	input, err := rc.parseInput(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := input.toRecord()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := rc.Service.AddRecord(record); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save record"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(viewOf(*record))
}

// UpdateRecord replaces a journal entry. The prior record's identifier and
// history are merged into the replacement here, so the full change log
// survives the update.
func (rc *RecordController) UpdateRecord(ctx *fiber.Ctx) error {
	prior, err := rc.Service.GetRecordByID(ctx.Params("id"))
	if err != nil {
		if errors.Is(err, Journal.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve record"})
	}

	input, err := rc.parseInput(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := input.toRecord()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	record.ID = prior.ID
	record.History = prior.History

	if err := rc.Service.UpdateRecord(*record); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update record"})
	}

	updated, err := rc.Service.GetRecordByID(prior.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve record"})
	}
	return ctx.JSON(viewOf(updated))
}

// DeleteRecord removes a journal entry. Deleting an unknown ID succeeds.
func (rc *RecordController) DeleteRecord(ctx *fiber.Ctx) error {
	if err := rc.Service.DeleteRecord(ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete record"})
	}
	return ctx.JSON(fiber.Map{"message": "Record deleted successfully"})
}

// GetCostPerKm returns the cost-of-ownership figure.
func (rc *RecordController) GetCostPerKm(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"costPerKm": rc.Service.CalculateCostPerKm()})
}

// GetFuelAnomalies returns fuel purchases with suspicious efficiency.
func (rc *RecordController) GetFuelAnomalies(ctx *fiber.Ctx) error {
	return ctx.JSON(viewsOf(rc.Service.FindFuelAnomalies()))
}

// GetNextMaintenance predicts the next service date from ?mileage= and
// ?lastMaintenance=YYYY-MM-DD.
func (rc *RecordController) GetNextMaintenance(ctx *fiber.Ctx) error {
	lastMaintenance, err := Models.ParseDate(ctx.Query("lastMaintenance"))
	if err != nil || lastMaintenance.IsZero() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lastMaintenance is required as YYYY-MM-DD",
		})
	}
	mileage := parseFloatOrZero(ctx.Query("mileage"))

	next := rc.Service.CalculateNextMaintenance(mileage, lastMaintenance)
	return ctx.JSON(fiber.Map{"nextMaintenance": next.String()})
}

// RunStatusSweep promotes overdue ACTIVE records to PENDING on demand. The
// cron job runs the same sweep on schedule; both are safe to repeat.
func (rc *RecordController) RunStatusSweep(ctx *fiber.Ctx) error {
	changed, err := rc.Service.UpdateStatuses()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update statuses"})
	}
	return ctx.JSON(fiber.Map{"updated": changed})
}
