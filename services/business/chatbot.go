package business

import (
	"context"
	"fmt"
	"strings"

	"cupbot/models"
)

func normalizeCommand(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
}

func (s *DefaultBusinessService) saveCustomization(ctx context.Context, b *models.Business) error {
	if err := s.Repo.UpdateSettings(ctx, b.ID, b.Settings); err != nil {
		return fmt.Errorf("failed to update chatbot settings: %w", err)
	}
	return nil
}

func (s *DefaultBusinessService) ListCommands(ctx context.Context, businessID string) ([]models.CustomCommand, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return nonNilCommands(b.Settings.Customization.CommandList), nil
}

func (s *DefaultBusinessService) AddCommand(ctx context.Context, businessID string, cmd models.CustomCommand) ([]models.CustomCommand, error) {
	cmd, err := validateCommand(cmd)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if indexOfCommand(b.Settings.Customization.CommandList, cmd.Command) >= 0 {
		return nil, ErrDuplicateCommand
	}
	b.Settings.Customization.CommandList = append(b.Settings.Customization.CommandList, cmd)
	if err := s.saveCustomization(ctx, b); err != nil {
		return nil, err
	}
	return b.Settings.Customization.CommandList, nil
}

// UpdateCommand replaces the reply, description and enabled flag. The command
// name itself is kept.
func (s *DefaultBusinessService) UpdateCommand(ctx context.Context, businessID, command string, cmd models.CustomCommand) ([]models.CustomCommand, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	list := b.Settings.Customization.CommandList
	i := indexOfCommand(list, normalizeCommand(command))
	if i < 0 {
		return nil, ErrCommandNotFound
	}
	cmd.Command = list[i].Command
	if cmd, err = validateCommand(cmd); err != nil {
		return nil, err
	}
	list[i] = cmd
	if err := s.saveCustomization(ctx, b); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *DefaultBusinessService) DeleteCommand(ctx context.Context, businessID, command string) ([]models.CustomCommand, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	list := b.Settings.Customization.CommandList
	i := indexOfCommand(list, normalizeCommand(command))
	if i < 0 {
		return nil, ErrCommandNotFound
	}
	b.Settings.Customization.CommandList = append(list[:i:i], list[i+1:]...)
	if err := s.saveCustomization(ctx, b); err != nil {
		return nil, err
	}
	return nonNilCommands(b.Settings.Customization.CommandList), nil
}

func (s *DefaultBusinessService) ListAutoResponses(ctx context.Context, businessID string) ([]models.AutoResponse, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return nonNilResponses(b.Settings.Customization.AutoResponses), nil
}

func (s *DefaultBusinessService) AddAutoResponse(ctx context.Context, businessID string, ar models.AutoResponse) ([]models.AutoResponse, error) {
	ar, err := validateAutoResponse(ar)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if indexOfTrigger(b.Settings.Customization.AutoResponses, ar.Trigger) >= 0 {
		return nil, ErrDuplicateTrigger
	}
	b.Settings.Customization.AutoResponses = append(b.Settings.Customization.AutoResponses, ar)
	if err := s.saveCustomization(ctx, b); err != nil {
		return nil, err
	}
	return b.Settings.Customization.AutoResponses, nil
}

func (s *DefaultBusinessService) DeleteAutoResponse(ctx context.Context, businessID, trigger string) ([]models.AutoResponse, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	list := b.Settings.Customization.AutoResponses
	i := indexOfTrigger(list, trigger)
	if i < 0 {
		return nil, ErrTriggerNotFound
	}
	b.Settings.Customization.AutoResponses = append(list[:i:i], list[i+1:]...)
	if err := s.saveCustomization(ctx, b); err != nil {
		return nil, err
	}
	return nonNilResponses(b.Settings.Customization.AutoResponses), nil
}

func (s *DefaultBusinessService) ChatbotSettings(ctx context.Context, businessID string) (*ChatbotSettings, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &ChatbotSettings{
		CommandList:   nonNilCommands(b.Settings.Customization.CommandList),
		AutoResponses: nonNilResponses(b.Settings.Customization.AutoResponses),
	}, nil
}

func (s *DefaultBusinessService) UpdateChatbotSettings(ctx context.Context, businessID string, patch ChatbotSettingsPatch) (*ChatbotSettings, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if patch.CommandList != nil {
		cmds := make([]models.CustomCommand, 0, len(patch.CommandList))
		for _, c := range patch.CommandList {
			c, err := validateCommand(c)
			if err != nil {
				return nil, err
			}
			if indexOfCommand(cmds, c.Command) >= 0 {
				return nil, ErrDuplicateCommand
			}
			cmds = append(cmds, c)
		}
		b.Settings.Customization.CommandList = cmds
	}
	if patch.AutoResponses != nil {
		responses := make([]models.AutoResponse, 0, len(patch.AutoResponses))
		for _, ar := range patch.AutoResponses {
			ar, err := validateAutoResponse(ar)
			if err != nil {
				return nil, err
			}
			if indexOfTrigger(responses, ar.Trigger) >= 0 {
				return nil, ErrDuplicateTrigger
			}
			responses = append(responses, ar)
		}
		b.Settings.Customization.AutoResponses = responses
	}
	if err := s.saveCustomization(ctx, b); err != nil {
		return nil, err
	}
	return &ChatbotSettings{
		CommandList:   nonNilCommands(b.Settings.Customization.CommandList),
		AutoResponses: nonNilResponses(b.Settings.Customization.AutoResponses),
	}, nil
}

func validateCommand(c models.CustomCommand) (models.CustomCommand, error) {
	c.Command = normalizeCommand(c.Command)
	if c.Command == "" || strings.ContainsAny(c.Command, " \t\n") {
		return c, invalid("command", "must be a single word")
	}
	if isBuiltinCommand(c.Command) {
		return c, invalid("command", fmt.Sprintf("/%s is a built-in command", c.Command))
	}
	if strings.TrimSpace(c.Response) == "" && strings.TrimSpace(c.Description) == "" {
		return c, invalid("response", "is required")
	}
	return c, nil
}

func isBuiltinCommand(name string) bool {
	switch name {
	case "start", "help", "info", "book", "order":
		return true
	}
	return false
}

func validateAutoResponse(ar models.AutoResponse) (models.AutoResponse, error) {
	ar.Trigger = strings.TrimSpace(ar.Trigger)
	if ar.Trigger == "" {
		return ar, invalid("trigger", "is required")
	}
	if strings.TrimSpace(ar.Response) == "" {
		return ar, invalid("response", "is required")
	}
	return ar, nil
}

func indexOfCommand(list []models.CustomCommand, name string) int {
	for i, c := range list {
		if strings.EqualFold(c.Command, name) {
			return i
		}
	}
	return -1
}

func indexOfTrigger(list []models.AutoResponse, trigger string) int {
	trigger = strings.TrimSpace(trigger)
	for i, ar := range list {
		if strings.EqualFold(ar.Trigger, trigger) {
			return i
		}
	}
	return -1
}

func nonNilCommands(c []models.CustomCommand) []models.CustomCommand {
	if c == nil {
		return []models.CustomCommand{}
	}
	return c
}

func nonNilResponses(r []models.AutoResponse) []models.AutoResponse {
	if r == nil {
		return []models.AutoResponse{}
	}
	return r
}
