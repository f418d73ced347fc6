// Package entity defines the remote-service entity shapes this layer
// persists: statuses, accounts, and notifications, in the JSON form the
// network collaborator hands them over.
//
// Entities arrive composed (a status carries its author account and,
// for a reblog, the full target status). Storage keeps denormalized
// standalone rows instead: the nested objects are detached into their
// own tables and replaced by id columns, and reads re-attach them. The
// Shallow methods produce the detached form.
package entity
