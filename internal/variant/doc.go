// Package variant holds the variant registry: the ordered mapping from a
// variant keyword (create, update, show, ...) to the name of the struct
// generated for it.
//
// Assignments come from the directive comment on a canonical struct
//
//	//variant:generate create=CreateUser update=UpdateUser show=User
//
// or from a YAML registry file:
//
//	version: "1"
//	types:
//	  User:
//	    create: CreateUser
//	    update: UpdateUser
//
// Keywords are arbitrary identifiers; the registry does not fix the set.
// Iteration follows declaration order so generated output is stable.
package variant
