package loanauth

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/credlens/loanauth/session"
)

func TestMultiProfileRegistrationAndLogin(t *testing.T) {
	convey.Convey("Given Ann registering a User profile", t, func() {
		ctx := context.Background()
		svc := NewService(NewAccountRepository(), session.NewStore(), NewTokens([]byte("test-signing-key")))

		msg, err := svc.Register(ctx, registerRequest{"Ann", "ann1", "a@x.com", "User", "p1"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(msg, convey.ShouldEqual, "Registered User Successfully")

		convey.Convey("When she registers an Admin profile under the same email", func() {
			msg, err := svc.Register(ctx, registerRequest{"Ann", "ann-admin", "a@x.com", "Admin", "p1"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(msg, convey.ShouldEqual, "Added Admin profile to existing user")

			convey.Convey("Then she can log in as her User profile", func() {
				res, err := svc.Login(ctx, loginRequest{"ann1", "a@x.com", "p1", "User"})

				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Token, convey.ShouldNotBeEmpty)
				convey.So(res.Role, convey.ShouldEqual, RoleUser)
				convey.So(res.Username, convey.ShouldEqual, "ann1")
			})

			convey.Convey("But not as Admin with the User profile's username", func() {
				res, err := svc.Login(ctx, loginRequest{"ann1", "a@x.com", "p1", "Admin"})

				convey.So(err, convey.ShouldEqual, ErrProfileNotFound)
				convey.So(res, convey.ShouldBeNil)
			})
		})
	})
}
