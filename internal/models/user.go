package models

// DefaultUserID is the placeholder owner of every listed and created
// transaction. It is not derived from any session.
const DefaultUserID = "1"
