// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// entity with ToDomain and a FromDomain constructor.
//
// Column types are chosen so the same models migrate on PostgreSQL and on the
// in-memory SQLite databases used by repository tests.
package models
