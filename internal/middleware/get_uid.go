package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UIDFromLocals returns the user_id set by JWTUidOnly.
func UIDFromLocals(c *fiber.Ctx) (string, error) {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return "", fiber.ErrUnauthorized
	}
	return uid, nil
}

// UIDObjectID returns the user_id from Locals as a bson.ObjectID.
func UIDObjectID(c *fiber.Ctx) (bson.ObjectID, error) {
	uid, err := UIDFromLocals(c)
	if err != nil {
		return bson.NilObjectID, err
	}
	oid, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	return oid, nil
}

// OptionalUID is the signed-in user's id, or NilObjectID for anonymous calls.
func OptionalUID(c *fiber.Ctx) bson.ObjectID {
	oid, err := UIDObjectID(c)
	if err != nil {
		return bson.NilObjectID
	}
	return oid
}
