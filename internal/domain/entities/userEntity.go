package entities

type UserRecord struct {
	UID   string `json:"uid" bson:"uid"`
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}
