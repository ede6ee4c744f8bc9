package validation

import "github.com/sandeepkv93/storefront-crud-api/internal/domain"

// ProductRules applies to both product create and full replace.
var ProductRules = RuleSet{
	{Field: "name", Check: NotEmpty, Message: "name is required"},
	{Field: "name", Check: IsString, Message: "name must be a string"},
	{Field: "price", Check: NotEmpty, Message: "price is required"},
	{Field: "price", Check: IsNumeric, Message: "price must be numeric"},
	{Field: "price", Check: Positive, Message: "price must be greater than 0"},
	{Field: "availability", Check: Optional(IsBoolean), Message: "availability must be a boolean"},
}

var UserCreateRules = RuleSet{
	{Field: "username", Check: NotEmpty, Message: "username is required"},
	{Field: "username", Check: IsString, Message: "username must be a string"},
	{Field: "email", Check: NotEmpty, Message: "email is required"},
	{Field: "email", Check: IsEmail, Message: "email format is invalid"},
	{Field: "password", Check: NotEmpty, Message: "password is required", Redact: true},
	{Field: "password", Check: IsString, Message: "password must be a string", Redact: true},
	{Field: "password", Check: MinLength(6), Message: "password must be at least 6 characters", Redact: true},
	{Field: "role", Check: Optional(OneOf(domain.Roles...)), Message: "role must be one of: user, admin"},
}

// UserUpdateRules validates only the fields a partial update supplies.
var UserUpdateRules = RuleSet{
	{Field: "username", Check: Optional(NotEmpty), Message: "username must not be empty"},
	{Field: "username", Check: Optional(IsString), Message: "username must be a string"},
	{Field: "email", Check: Optional(IsEmail), Message: "email format is invalid"},
	{Field: "password", Check: Optional(IsString), Message: "password must be a string", Redact: true},
	{Field: "password", Check: Optional(MinLength(6)), Message: "password must be at least 6 characters", Redact: true},
	{Field: "role", Check: Optional(OneOf(domain.Roles...)), Message: "role must be one of: user, admin"},
}
