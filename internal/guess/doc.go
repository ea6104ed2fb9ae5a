// Package guess finds the password a check endpoint accepts by trying every
// candidate from a list.
//
// Each candidate is substituted into a URL template and fetched with GET.
// The first response whose first line equals the sentinel ("True" by
// default) ends the run and its full body is returned. Any transport error or
// non-2xx status stops the run as well.
//
//	tmpl, _ := guess.ParseTemplate("http://127.0.0.1:3000/u/{username}/check/{password}")
//	g := guess.New(tmpl, guess.WithUsername("alice"))
//	match, err := g.Run(ctx, candidates)
package guess
