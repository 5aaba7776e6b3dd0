package models

// Vehicle keeps the column and JSON names the front end already consumes.
type Vehicle struct {
	Plate   string  `json:"bienso" gorm:"column:bienso;primaryKey;size:8"`
	ModelID uint    `json:"maxe" gorm:"column:maxe;not null;index"`
	OwnerID uint    `json:"makh" gorm:"column:makh;not null;index"`
	Note    *string `json:"ghichu" gorm:"column:ghichu"`
}

func (Vehicle) TableName() string { return "vehicles" }

type VehicleView struct {
	Vehicle
	FullName string `json:"full_name" gorm:"column:full_name"`
	Phone    string `json:"phone" gorm:"column:phone"`
	Brand    string `json:"brand" gorm:"column:brand"`
	Model    string `json:"model" gorm:"column:model"`
}
