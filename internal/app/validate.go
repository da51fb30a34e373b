package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"reelmap/internal/domain"
)

var ErrInvalidExtraction = errors.New("invalid extraction")

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}()

// ValidateExtraction rejects input the resolver cannot work with: a
// missing shortcode, a blank candidate name or an unknown sentiment.
func ValidateExtraction(ex domain.Extraction) error {
	err := validate.Struct(ex)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidExtraction, strings.Join(msgs, "; "))
}
