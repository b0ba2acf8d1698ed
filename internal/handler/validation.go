package handler

import (
	"sync"

	"sanatorium-booking/internal/domain/reservation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("isodate", isoDate)
	})
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := reservation.ParseDate(fl.Field().String())
	return err == nil
}
