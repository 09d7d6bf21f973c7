// Package mocks holds gomock doubles for the interfaces in internal/ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserStore(ctrl)
//	users.EXPECT().Get(gomock.Any(), "alice").Return(model.User{}, false, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/recipe-finder/internal/ports PasswordHasher,RecipeLookup,SessionCodec,SessionStore,UserStore
