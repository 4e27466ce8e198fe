package models

import "time"

// DashboardStats is the occupancy summary shown on the dashboard
type DashboardStats struct {
	TotalRooms       int `json:"total_rooms"`
	OccupiedRooms    int `json:"occupied_rooms"`
	FullRooms        int `json:"full_rooms"`
	AvailableRooms   int `json:"available_rooms"`
	MaintenanceRooms int `json:"maintenance_rooms"`
	TotalStudents    int `json:"total_students"`
	TotalGuests      int `json:"total_guests"`
	OccupancyRate    int `json:"occupancy_rate"` // percent
}

// MonthlyRevenue is the paid revenue for one month
type MonthlyRevenue struct {
	Month       string `json:"month"`
	Electricity int64  `json:"electricity"`
	Water       int64  `json:"water"`
	RoomFee     int64  `json:"room_fee"`
	Total       int64  `json:"total"`
}

type NotificationLevel string

const (
	NotificationDanger  NotificationLevel = "danger"
	NotificationWarning NotificationLevel = "warning"
)

// Notification is a derived due-soon or overdue alert; it is never stored
type Notification struct {
	BillID       string            `json:"bill_id"`
	RoomID       string            `json:"room_id"`
	RoomName     string            `json:"room_name"`
	Month        string            `json:"month"`
	Level        NotificationLevel `json:"level"`
	DaysUntilDue int               `json:"days_until_due"`
	Amount       int64             `json:"amount"`
	DueDate      time.Time         `json:"due_date"`
	Message      string            `json:"message"`
}
