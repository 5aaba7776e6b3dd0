package services

import (
	"context"
	"testing"

	"garage_manager/internal/apperr"
	"garage_manager/internal/models"
)

func newVehicleFixture() (*memDB, VehicleService) {
	db := newMemDB()
	db.addUser(7, "cust7", "0912345678", models.RoleCustomer)
	db.addUser(8, "cust8", "0987654321", models.RoleCustomer)
	db.addUser(2, "staff2", "0900000002", models.RoleStaff)
	db.addCarModel(3, "Toyota", "Vios")
	db.addCarModel(4, "Honda", "City")
	return db, NewVehicleService(fakeVehicles{db}, fakeUsers{db}, fakeCatalog{db})
}

func TestRegisterVehicleScenario(t *testing.T) {
	_, svc := newVehicleFixture()
	ctx := context.Background()

	v, err := svc.Register(ctx, VehicleInput{Plate: "51A12345", Phone: "0912345678", Model: "Toyota/Vios"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if v.Plate != "51A12345" || v.ModelID != 3 || v.OwnerID != 7 {
		t.Fatalf("unexpected vehicle %+v", v)
	}

	_, err = svc.Register(ctx, VehicleInput{Plate: "51A12345", Phone: "0987654321", ModelID: 4})
	assertKind(t, err, apperr.KindConflict)
}

func TestRegisterVehicleChecks(t *testing.T) {
	_, svc := newVehicleFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   VehicleInput
		kind apperr.Kind
		msg  string
	}{
		{"bad plate", VehicleInput{Plate: "5A123456", Phone: "0912345678", ModelID: 3}, apperr.KindValidation, "Biển số xe không hợp lệ"},
		{"bad phone", VehicleInput{Plate: "51A12345", Phone: "091234", ModelID: 3}, apperr.KindValidation, "Số điện thoại không hợp lệ"},
		{"no model", VehicleInput{Plate: "51A12345", Phone: "0912345678"}, apperr.KindValidation, "Thiếu thông tin bắt buộc"},
		{"malformed model", VehicleInput{Plate: "51A12345", Phone: "0912345678", Model: "Toyota"}, apperr.KindValidation, "Mẫu xe phải có dạng Hãng/Mẫu"},
		{"staff phone", VehicleInput{Plate: "51A12345", Phone: "0900000002", ModelID: 3}, apperr.KindNotFound, msgCustomerNotFound},
		{"unknown model", VehicleInput{Plate: "51A12345", Phone: "0912345678", Model: "Kia/Morning"}, apperr.KindNotFound, msgModelNotFound},
		{"unknown model id", VehicleInput{Plate: "51A12345", Phone: "0912345678", ModelID: 99}, apperr.KindNotFound, msgModelNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.in)
			assertKind(t, err, tc.kind)
			if got := apperr.Message(err); got != tc.msg {
				t.Fatalf("message = %q, want %q", got, tc.msg)
			}
		})
	}
}

func TestUpdateVehicle(t *testing.T) {
	db, svc := newVehicleFixture()
	ctx := context.Background()
	db.vehicles["51A12345"] = &models.Vehicle{Plate: "51A12345", ModelID: 3, OwnerID: 7}
	db.vehicles["30B11111"] = &models.Vehicle{Plate: "30B11111", ModelID: 4, OwnerID: 8}
	db.tickets[1] = &models.Ticket{ID: 1, Plate: "51A12345"}

	_, err := svc.Update(ctx, "99Z99999", VehicleInput{Plate: "99Z99999", Phone: "0912345678", ModelID: 3})
	assertKind(t, err, apperr.KindNotFound)

	_, err = svc.Update(ctx, "51A12345", VehicleInput{Plate: "30B11111", Phone: "0912345678", ModelID: 3})
	assertKind(t, err, apperr.KindConflict)

	note := "đổi chủ"
	view, err := svc.Update(ctx, "51a12345", VehicleInput{Plate: "51A54321", Phone: "0987654321", Model: "Honda/City", Note: &note})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Plate != "51A54321" || view.OwnerID != 8 || view.ModelID != 4 || view.Brand != "Honda" {
		t.Fatalf("unexpected view %+v", view)
	}
	if _, ok := db.vehicles["51A12345"]; ok {
		t.Fatal("old plate still present")
	}
	if db.tickets[1].Plate != "51A54321" {
		t.Fatalf("ticket plate not carried over: %q", db.tickets[1].Plate)
	}

	// Keeping the same plate skips the uniqueness check.
	if _, err := svc.Update(ctx, "30B11111", VehicleInput{Plate: "30B11111", Phone: "0987654321", ModelID: 3}); err != nil {
		t.Fatalf("same-plate update: %v", err)
	}
}

func TestDeleteVehicle(t *testing.T) {
	db, svc := newVehicleFixture()
	ctx := context.Background()
	db.vehicles["51A12345"] = &models.Vehicle{Plate: "51A12345", ModelID: 3, OwnerID: 7}

	if err := svc.Delete(ctx, "51A12345"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertKind(t, svc.Delete(ctx, "51A12345"), apperr.KindNotFound)
}
