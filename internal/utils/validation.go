package utils

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

const PayMessage = "Оплата должна быть больше 0"

var ErrInvalidPay = errors.New(PayMessage)

// Validator wraps validator.Validate with Russian messages. Field names in
// messages come from the `label` struct tag.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ru := ru.New()
	uni := ut.New(ru, ru)
	trans, _ := uni.GetTranslator("ru")
	if err := ru_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	if err := validate.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		_, err := ParsePay(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, err
	}

	messages := map[string]string{
		"required":        "Заполните поле «{0}»",
		"positive_amount": PayMessage,
		"datetime":        "Поле «{0}» заполнено в неверном формате",
		"oneof":           "Поле «{0}» содержит недопустимое значение",
		"image_type":      "Можно загружать только изображения",
	}
	for tag, text := range messages {
		if err := registerMessage(validate, trans, tag, text); err != nil {
			return nil, err
		}
	}

	if err := validate.RegisterValidation("image_type", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), "image/")
	}); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: trans}, nil
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		msg, err := ut.T(tag, fe.Field())
		if err != nil {
			return fe.Error()
		}
		return msg
	})
}

// Struct validates v and returns the first failure as a translated message.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	return errors.New(validationErrors[0].Translate(v.translator))
}

// ParsePay accepts the raw form input ("3500", "3 500", "3500,50") and returns
// whole roubles. Anything that is not a finite number above zero is rejected.
func ParsePay(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, ErrInvalidPay
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidPay
	}

	pay := math.Round(f)
	if pay <= 0 || pay > math.MaxInt32 {
		return 0, ErrInvalidPay
	}

	return int(pay), nil
}
