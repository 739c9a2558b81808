package domain

import "time"

// Enumerations
const (
	RoleAccountant UserRole = "accountant"
	RoleManager    UserRole = "manager"
	RoleStaff      UserRole = "staff"
	RoleCustomer   UserRole = "customer"

	BillPending  BillStatus = "pending"
	BillVerified BillStatus = "verified"
	BillRejected BillStatus = "rejected"

	AttendancePresent AttendanceStatus = "present"
	AttendanceLeave   AttendanceStatus = "leave"
	AttendanceSick    AttendanceStatus = "sick"
	AttendanceOff     AttendanceStatus = "off"

	SourceManual AttendanceSource = "manual"
	SourceRFID   AttendanceSource = "rfid"

	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"

	LogInfo    ActivityLogType = "info"
	LogWarning ActivityLogType = "warning"
	LogError   ActivityLogType = "error"
)

type UserRole string
type BillStatus string
type AttendanceStatus string
type AttendanceSource string
type TaskStatus string
type ActivityLogType string

// ValidRole reports whether r is a known user role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAccountant, RoleManager, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Role         UserRole
	StaffID      *string
	RFIDUid      *string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Bill struct {
	ID              int64
	BillNumber      string
	CustomerUserID  *int64
	CustomerName    string
	CustomerPhone   string
	SampleID        string
	DRCPercent      float64
	BarrelCount     int
	LatexVolume     float64
	MarketRate      float64
	TotalAmount     float64
	Status          BillStatus
	AccountantNotes string
	CreatedBy       *int64
	VerifiedBy      *int64
	VerifiedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type Attendance struct {
	ID        int64
	StaffID   int64
	StaffName string
	StaffCode *string
	Date      time.Time
	CheckIn   time.Time
	CheckOut  *time.Time
	Status    AttendanceStatus
	Source    AttendanceSource
	Notes     string
	CreatedAt time.Time
}

type DeliveryTask struct {
	ID             int64
	Title          string
	AssignedTo     int64
	AssigneeName   string
	CustomerUserID int64
	CustomerName   string
	PickupAddress  string
	DropAddress    string
	PickupLat      *float64
	PickupLng      *float64
	Status         TaskStatus
	Notes          string
	ScheduledFor   *time.Time
	CreatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

type ActivityLog struct {
	ID       int64
	Title    string
	Message  string
	Actor    string
	Type     ActivityLogType
	LoggedAt time.Time
}

// CanTransition reports whether a delivery task may move from one status to the
// next. Forward one step only; cancelled is reachable from any non-terminal state.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	switch s {
	case TaskAssigned:
		return next == TaskInProgress || next == TaskCancelled
	case TaskInProgress:
		return next == TaskCompleted || next == TaskCancelled
	default:
		return false
	}
}

// Terminal reports whether the task status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}
