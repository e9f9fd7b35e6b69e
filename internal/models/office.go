package models

// Office is a municipal organizational unit employing technical staff.
type Office struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Category classifies reports; its office owns every report filed under it.
type Category struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"uniqueIndex;not null" json:"name"`
	OfficeID uint    `gorm:"not null;index" json:"office_id"`
	Office   *Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
}
