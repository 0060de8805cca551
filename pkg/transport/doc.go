// Package transport defines the language-model transport collaborator (spec
// §6): a fixed pool of conversational "slots" that the Director, Narrator, and
// skill-persona roles submit grammar-constrained requests through. The
// concrete transport (server process, streaming protocol, grammar engine) is
// explicitly out of scope (spec §1); this package defines the interface and a
// slot-ownership pool on top of it, plus an in-memory fake for tests and the
// CLI demo.
package transport
