// Package identity defines the user record searched by the kimlik admin API.
//
// A User belongs to exactly one realm and carries free-form, multi-valued
// string attributes. Within a realm users have a stable ordinal that fixes
// their position in the backing store; search pagination relies on that
// order never changing between calls.
//
//	u := identity.NewUser("master", "alice")
//	u.SetAttribute("hierarchy", "100.200")
//	u.Values("hierarchy") // ["100.200"]
package identity
