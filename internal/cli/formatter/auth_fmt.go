package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

// FormatUser renders the logged-in account.
func FormatUser(u domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Name: "), Bold(u.Name))
	fmt.Fprintf(&b, "%s %s\n", Dim("Email:"), u.Email)
	fmt.Fprintf(&b, "%s %s", Dim("ID:   "), Dim(u.ID))
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "\n%s %s", Dim("Since:"), ShortDate(u.CreatedAt))
	}
	return RenderBox("Account", b.String()) + "\n"
}
