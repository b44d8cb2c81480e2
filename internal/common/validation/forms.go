package validation

import "internship-portal/internal/models"

// ValidateInternship runs the internship schema plus the salary ordering
// check.
func ValidateInternship(input models.InternshipInput) (*ValidationResult, error) {
	result, err := Validate(FormInternship, input)
	if err != nil {
		return nil, err
	}
	if input.SalaryMin > 0 && input.SalaryMax > 0 && input.SalaryMin > input.SalaryMax {
		result.Add("salary_max", "Maximum salary must not be below the minimum", "SALARY_RANGE")
	}
	return result, nil
}

// ValidateStudentRegistration also requires the password confirmation to
// match.
func ValidateStudentRegistration(input models.StudentRegistration, confirm string) (*ValidationResult, error) {
	result, err := Validate(FormStudentRegistration, input)
	if err != nil {
		return nil, err
	}
	if input.Password != confirm {
		result.Add("confirm_password", "Passwords do not match", "PASSWORD_MISMATCH")
	}
	return result, nil
}

func ValidateCompanyRegistration(input models.CompanyRegistration, confirm string) (*ValidationResult, error) {
	result, err := Validate(FormCompanyRegistration, input)
	if err != nil {
		return nil, err
	}
	if input.Password != confirm {
		result.Add("confirm_password", "Passwords do not match", "PASSWORD_MISMATCH")
	}
	return result, nil
}
