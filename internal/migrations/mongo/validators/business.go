package validators

import "go.mongodb.org/mongo-driver/bson"

var BusinessValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"business_type",
			"upi_id",
			"city",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"business_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"hotel",
					"restaurant",
					"cafe",
					"cab",
					"shopping",
				},
			},

			"upi_id": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 320,
			},

			"phone": bson.M{
				"bsonType":  "string",
				"maxLength": 16,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 60,
			},

			"address": bson.M{
				"bsonType":  "string",
				"maxLength": 300,
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
