// Package validation は登録・更新用DTOの形式チェックを行う。
// リポジトリは永続化の前に必ずここを通す。
package validation

import (
	"errors"
	"log"
	"reflect"
	"strings"

	"go_igreja_admin/internal/model"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_BR_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":           "nome",
	"email":          "e-mail",
	"phone":          "telefone",
	"type":           "tipo",
	"status":         "situação",
	"sex":            "sexo",
	"admission_mode": "modo de admissão",
	"birth_date":     "data de nascimento",
	"kind":           "tipo de grupo",
	"role":           "cargo",
	"member_id":      "membro",
	"position":       "cargo",
	"election_date":  "data de eleição",
	"start_date":     "data de início",
	"end_date":       "data de término",
	"bond_type":      "vínculo",
	"username":       "usuário",
	"password":       "senha",
	"plan_id":        "plano",
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "date" は YYYY-MM-DD または RFC3339 の文字列を受け付ける
	if err := Validator.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		log.Fatal(err)
	}

	portuguese := pt_BR.New()
	uni := ut.New(portuguese, portuguese)
	var found bool
	Trans, found = uni.GetTranslator("pt_BR")
	if !found {
		log.Fatal("translator not found")
	}

	if err := pt_BR_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translateField(fe.Field()), fe.Param())
			return t
		})
	}

	registerTranslation("required", "{0} é obrigatório.")
	registerTranslation("email", "{0} deve ser um e-mail válido.")
	registerTranslation("date", "{0} deve ser uma data válida (AAAA-MM-DD).")
	registerTranslation("oneof", "{0} deve ser um dos valores: {1}.")
}

func translateField(field string) string {
	if translated, ok := fieldNameTranslations[field]; ok {
		return translated
	}
	return field
}

// Struct は構造体を検証し、失敗時は ErrInvalidInput をラップした AppError を返す。
func Struct(v any) error {
	err := Validator.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// InvalidValidationError (nil 渡しなど)
		return model.NewAppError("VALIDATION_ERROR", err.Error(), "", model.ErrInvalidInput)
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fe.Translate(Trans))
		fields = append(fields, fe.Field())
	}
	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
