package directory

import "github.com/studiowebux/shopdemo/internal/types"

// Sample is the built-in person set used in local mode
var Sample = []types.User{
	{
		ID:        1,
		FirstName: "João",
		LastName:  "Silva",
		Age:       28,
		Gender:    types.GenderMale,
		Email:     "joao.silva@email.com",
		Phone:     "+55 (84) 99999-9999",
		Username:  "joaosilva",
		BirthDate: "1995-05-15",
		Image:     "https://i.pravatar.cc/150?img=1",
		Address: types.Address{
			Address:    "Rua das Flores, 123",
			City:       "Natal",
			PostalCode: "59000-000",
			State:      "RN",
		},
	},
	{
		ID:        2,
		FirstName: "Maria",
		LastName:  "Santos",
		Age:       32,
		Gender:    types.GenderFemale,
		Email:     "maria.santos@email.com",
		Phone:     "+55 (84) 98888-8888",
		Username:  "mariasantos",
		BirthDate: "1991-08-22",
		Image:     "https://i.pravatar.cc/150?img=2",
		Address: types.Address{
			Address:    "Av. Central, 456",
			City:       "Parnamirim",
			PostalCode: "59140-000",
			State:      "RN",
		},
	},
}

// Defaults applied to records created through AddUser
const (
	DefaultAge       = 25
	DefaultBirthDate = "1998-01-01"
	DefaultImage     = "https://i.pravatar.cc/150"
)

// DefaultAddress is the placeholder address of created records
var DefaultAddress = types.Address{
	Address:    "Nova Rua, 999",
	City:       "Natal",
	PostalCode: "59000-000",
	State:      "RN",
}
