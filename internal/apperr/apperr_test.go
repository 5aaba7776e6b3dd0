package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
		code int
	}{
		{Validation("bad plate"), KindValidation, http.StatusBadRequest},
		{Unauthorized("missing token"), KindUnauthorized, http.StatusUnauthorized},
		{Forbidden("no"), KindForbidden, http.StatusForbidden},
		{NotFound("ticket"), KindNotFound, http.StatusNotFound},
		{Conflict("dup"), KindConflict, http.StatusConflict},
		{Internal("db", errors.New("boom")), KindInternal, http.StatusInternalServerError},
		{errors.New("plain"), KindInternal, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("vehicle")), KindNotFound, http.StatusNotFound},
	}
	for _, tt := range cases {
		if got := KindOf(tt.err); got != tt.kind {
			t.Fatalf("KindOf(%v) = %s, want %s", tt.err, got, tt.kind)
		}
		if got := HTTPStatus(KindOf(tt.err)); got != tt.code {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.code)
		}
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Internal("Không thể tạo phiếu sửa chữa", errors.New("pq: relation does not exist"))
	if got := Message(err); got != "Không thể tạo phiếu sửa chữa" {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(errors.New("pq: secret detail")); got != "Lỗi server" {
		t.Fatalf("Message leaked detail: %q", got)
	}
	if got := Message(Conflict("Biển số xe đã tồn tại")); got != "Biển số xe đã tồn tại" {
		t.Fatalf("Message = %q", got)
	}
}
