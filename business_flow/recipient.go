package businessflow

import (
	"context"
	"log"

	"github.com/amirphl/open-so-review/config"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
)

// Messages explaining why the fallback administrator receives the notification
const (
	MsgSupervisorLacksEmail = "Supervisor record lacks email, so email recipient is the NetSuite Administrator."
	MsgNoSupervisor         = "No supervisor for the Sales Rep, so email recipient is the NetSuite Administrator."
	MsgSalesRepLoadFailed   = "Sales Rep record could not be loaded, so email recipient is the NetSuite Administrator."
	MsgSupervisorLoadFailed = "Supervisor record could not be loaded, so email recipient is the NetSuite Administrator."
)

// Recipient is who a review notification is addressed to
type Recipient struct {
	EmployeeID uint
	Email      string
	Name       string
	Fallback   bool
}

func fallbackRecipient(admin config.AdminConfig) Recipient {
	return Recipient{
		EmployeeID: admin.EmployeeID,
		Email:      admin.Email,
		Name:       admin.Name,
		Fallback:   true,
	}
}

// ResolveRecipient picks the supervisor of the sales rep when one exists and has an email,
// and the fallback administrator otherwise. The message is empty when the supervisor was chosen.
func ResolveRecipient(ctx context.Context, employees repository.EmployeeRepository, admin config.AdminConfig, salesRepID uint) (Recipient, string) {
	rep, err := employees.ByID(ctx, salesRepID)
	if err != nil || rep == nil {
		if err != nil {
			log.Printf("resolve recipient: load sales rep %d: %v", salesRepID, err)
		}
		return fallbackRecipient(admin), MsgSalesRepLoadFailed
	}

	if rep.SupervisorID == nil || *rep.SupervisorID == 0 {
		return fallbackRecipient(admin), MsgNoSupervisor
	}

	supervisor, err := employees.ByID(ctx, *rep.SupervisorID)
	if err != nil {
		log.Printf("resolve recipient: load supervisor %d of sales rep %d: %v", *rep.SupervisorID, salesRepID, err)
		return fallbackRecipient(admin), MsgSupervisorLoadFailed
	}
	if supervisor == nil {
		return fallbackRecipient(admin), MsgNoSupervisor
	}
	if !supervisor.HasEmail() {
		return fallbackRecipient(admin), MsgSupervisorLacksEmail
	}

	return Recipient{
		EmployeeID: supervisor.ID,
		Email:      utils.DerefString(supervisor.Email, ""),
		Name:       supervisor.DisplayName(),
	}, ""
}
