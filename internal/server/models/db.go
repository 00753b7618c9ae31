// Package models defines the server-side data models: relational entities
// stored in PostgreSQL and question documents stored in MongoDB.
package models
