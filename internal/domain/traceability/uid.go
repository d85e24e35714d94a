package traceability

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// EntityType classifies what a traceability identifier is attached to
type EntityType string

const (
	EntityTypeRawMaterial   EntityType = "RM"
	EntityTypeComponentPart EntityType = "CP"
	EntityTypeFinishedGood  EntityType = "FG"
	EntityTypeAssembly      EntityType = "AS"
)

// IsValid checks if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeRawMaterial, EntityTypeComponentPart, EntityTypeFinishedGood, EntityTypeAssembly:
		return true
	}
	return false
}

// UIDStatus represents the registry status of an identifier
type UIDStatus string

const (
	UIDStatusActive     UIDStatus = "ACTIVE"
	UIDStatusConsumed   UIDStatus = "CONSUMED"
	UIDStatusDispatched UIDStatus = "DISPATCHED"
	UIDStatusScrapped   UIDStatus = "SCRAPPED"
)

// IsValid checks if the status is a valid UIDStatus
func (s UIDStatus) IsValid() bool {
	switch s {
	case UIDStatusActive, UIDStatusConsumed, UIDStatusDispatched, UIDStatusScrapped:
		return true
	}
	return false
}

// Lifecycle stage constants
const (
	StageCreated    = "CREATED"
	StageReceived   = "RECEIVED"
	StageInProcess  = "IN_PROCESS"
	StageCompleted  = "COMPLETED"
	StageDispatched = "DISPATCHED"
)

// LifecycleEvent is one append-only entry in an identifier's history
type LifecycleEvent struct {
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	Reference string    `json:"reference,omitempty"`
	Actor     string    `json:"actor,omitempty"`
}

// Lifecycle is the ordered event history, stored as a JSON column
type Lifecycle []LifecycleEvent

// Value implements driver.Valuer for JSON storage
func (l Lifecycle) Value() (driver.Value, error) {
	if l == nil {
		l = Lifecycle{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON storage
func (l *Lifecycle) Scan(value interface{}) error {
	if value == nil {
		*l = Lifecycle{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported lifecycle column type %T", value)
}

// Metadata carries descriptive attributes captured at issuance
type Metadata struct {
	ItemCode      string     `json:"item_code,omitempty"`
	ItemName      string     `json:"item_name,omitempty"`
	BatchNumber   string     `json:"batch_number,omitempty"`
	MfgDate       *time.Time `json:"mfg_date,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
}

// Value implements driver.Valuer for JSON storage
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSON storage
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported metadata column type %T", value)
}

var codePattern = regexp.MustCompile(`^UID-([A-Z0-9]+)-([A-Z0-9]+)-(RM|CP|FG|AS)-(\d{6})-([A-Z0-9]{2})$`)

// Checksum derives the two-character verification suffix for a code body.
// A 32-bit rolling hash rendered in upper-case base 36, padded to 2 chars.
func Checksum(input string) string {
	var hash int32
	for _, c := range input {
		hash = hash<<5 - hash + int32(c)
	}
	if hash < 0 {
		hash = -hash
	}
	s := strings.ToUpper(strconv.FormatInt(int64(hash), 36))
	if len(s) > 2 {
		s = s[:2]
	}
	for len(s) < 2 {
		s += "0"
	}
	return s
}

// GenerateCode builds a registry code from its parts
func GenerateCode(tenantCode, plantCode string, entityType EntityType, sequence int) string {
	seq := fmt.Sprintf("%06d", sequence)
	ck := Checksum(tenantCode + plantCode + string(entityType) + seq)
	return fmt.Sprintf("UID-%s-%s-%s-%s-%s", tenantCode, plantCode, entityType, seq, ck)
}

// ValidateCode checks the structural format and checksum of a code
func ValidateCode(code string) error {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return shared.NewValidationError("INVALID_UID_FORMAT", fmt.Sprintf("Malformed identifier: %s", code))
	}
	if Checksum(m[1]+m[2]+m[3]+m[4]) != m[5] {
		return shared.NewValidationError("INVALID_UID_CHECKSUM", fmt.Sprintf("Checksum mismatch for identifier: %s", code))
	}
	return nil
}

// CodePrefix returns the scan prefix for a tenant/plant/type scope
func CodePrefix(tenantCode, plantCode string, entityType EntityType) string {
	return fmt.Sprintf("UID-%s-%s-%s-", tenantCode, plantCode, entityType)
}

// SequenceFromCode extracts the numeric sequence from a well-formed code
func SequenceFromCode(code string) (int, error) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return 0, shared.NewValidationError("INVALID_UID_FORMAT", fmt.Sprintf("Malformed identifier: %s", code))
	}
	return strconv.Atoi(m[4])
}

// UIDRecord is one registered traceability identifier. The lifecycle column
// is append-only; the current stage is always the last entry.
type UIDRecord struct {
	shared.TenantAggregateRoot
	Code            string     `gorm:"type:varchar(60);not null;uniqueIndex"`
	EntityType      EntityType `gorm:"type:varchar(5);not null"`
	ItemID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorID        *uuid.UUID `gorm:"type:uuid;index"`
	PurchaseOrderID *uuid.UUID `gorm:"type:uuid"`
	ReceiptID       *uuid.UUID `gorm:"type:uuid;index:idx_uid_receipt_item"`
	ReceiptLineID   *uuid.UUID `gorm:"type:uuid"`
	BatchNumber     string     `gorm:"type:varchar(50)"`
	Status          UIDStatus  `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Location        string     `gorm:"type:varchar(100)"`
	QualityStatus   string     `gorm:"type:varchar(20)"`
	Lifecycle       Lifecycle  `gorm:"type:jsonb"`
	Metadata        Metadata   `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (UIDRecord) TableName() string {
	return "uid_registry"
}

// NewUIDRecord registers a new identifier with an initial lifecycle event
func NewUIDRecord(
	tenantID uuid.UUID,
	code string,
	entityType EntityType,
	itemID uuid.UUID,
	initial LifecycleEvent,
	metadata Metadata,
) (*UIDRecord, error) {
	if err := ValidateCode(code); err != nil {
		return nil, err
	}
	if !entityType.IsValid() {
		return nil, shared.NewValidationError("INVALID_ENTITY_TYPE", fmt.Sprintf("Invalid entity type: %s", entityType))
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if initial.Timestamp.IsZero() {
		initial.Timestamp = time.Now()
	}
	if initial.Stage == "" {
		initial.Stage = StageCreated
	}

	return &UIDRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		EntityType:          entityType,
		ItemID:              itemID,
		Status:              UIDStatusActive,
		Location:            initial.Location,
		Lifecycle:           Lifecycle{initial},
		Metadata:            metadata,
	}, nil
}

// AttachReceipt links the identifier to its originating goods receipt
func (u *UIDRecord) AttachReceipt(receiptID, receiptLineID uuid.UUID, vendorID, purchaseOrderID *uuid.UUID, batchNumber string) {
	u.ReceiptID = &receiptID
	u.ReceiptLineID = &receiptLineID
	u.VendorID = vendorID
	u.PurchaseOrderID = purchaseOrderID
	u.BatchNumber = batchNumber
}

// AppendLifecycle adds an event to the history and updates the location
func (u *UIDRecord) AppendLifecycle(stage, location, reference, actor string) error {
	if stage == "" {
		return shared.NewValidationError("INVALID_STAGE", "Lifecycle stage cannot be empty")
	}
	u.Lifecycle = append(u.Lifecycle, LifecycleEvent{
		Stage:     stage,
		Timestamp: time.Now(),
		Location:  location,
		Reference: reference,
		Actor:     actor,
	})
	if location != "" {
		u.Location = location
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// CurrentStage returns the stage of the most recent lifecycle event
func (u *UIDRecord) CurrentStage() string {
	if len(u.Lifecycle) == 0 {
		return ""
	}
	return u.Lifecycle[len(u.Lifecycle)-1].Stage
}

// MarkStatus updates the registry status
func (u *UIDRecord) MarkStatus(status UIDStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_UID_STATUS", fmt.Sprintf("Invalid identifier status: %s", status))
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}
