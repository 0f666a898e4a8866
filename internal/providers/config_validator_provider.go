package providers

import (
	"errors"
	"strings"

	"ctad/internal/structures"
	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the validate struct tags over the whole config tree and
// flattens the result into a single error.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if v.Validate() {
		return nil
	}

	var msgs []string
	for field, errMap := range v.Errors.All() {
		for _, msg := range errMap {
			msgs = append(msgs, field+": "+msg)
		}
	}
	return errors.New("invalid configuration: " + strings.Join(msgs, "; "))
}
