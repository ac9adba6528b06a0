package analysis

import (
	"fmt"
	"strings"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// javaBundle is the Spring Boot backend target.
func javaBundle() *TemplateBundle {
	return &TemplateBundle{
		Tag:           "java",
		Display:       "JAVA",
		ImplSurcharge: 1.0,
		Dependencies: []string{
			"spring-boot-starter-web",
			"spring-boot-starter-data-jpa",
			"spring-boot-starter-validation",
			"lombok",
			"mapstruct",
		},
		SetupSteps: []string{
			"Add dependencies to pom.xml or build.gradle",
			"Configure database connection in application.properties",
			"Run database migrations if needed",
			"Build project: mvn clean install",
			"Run application: mvn spring-boot:run",
		},
		Layers: []LayerTemplate{
			{Layer: "Controller", Extension: "java", Description: "REST API controller", Render: javaController},
			{Layer: "Service", Extension: "java", Description: "Business logic service", Render: javaService},
			{Layer: "Repository", Extension: "java", Description: "Data access layer", Render: javaRepository},
			{Layer: "DTO", Extension: "java", Description: "Data transfer object", Render: javaDTO},
			{Layer: "Entity", Extension: "java", Description: "JPA entity", Render: javaEntity},
		},
		Sections: javaSections,
		Notes:    javaNotes,
	}
}

func javaSections(ctx GenContext) []models.PseudoCodeSection {
	kw := ctx.Keywords
	isComplex := ctx.Level == models.ComplexityComplex
	title := strings.ToLower(ctx.Issue.Title)
	label := strings.TrimSpace(ctx.Issue.Title)
	if label == "" {
		label = ctx.Name
	}

	validation := []string{"BEGIN"}
	if kw.Auth {
		validation = append(validation,
			"  VERIFY user authentication token",
			"  CHECK caller permissions for this operation",
			"  IF unauthorized THEN",
			"    RETURN 401/403 error response",
			"  END IF",
		)
	}
	validation = append(validation,
		"  VALIDATE incoming request parameters",
		"  CHECK required fields are present and well formed",
	)
	if kw.Validation {
		validation = append(validation, "  SANITIZE input to prevent injection attacks")
	}
	validation = append(validation,
		"  IF validation fails THEN",
		"    THROW ValidationException with error details",
		"  END IF",
	)

	main := []string{fmt.Sprintf("  IMPLEMENT: %s", label)}
	switch {
	case kw.CRUD && (strings.Contains(title, "create") || strings.Contains(title, "save")):
		main = append(main, "  CREATE new entity from request data")
		if kw.Database {
			main = append(main, "  SAVE entity to database")
		}
	case kw.CRUD && strings.Contains(title, "update"):
		main = append(main,
			"  FETCH existing entity by ID",
			"  UPDATE entity fields with new values",
		)
		if kw.Database {
			main = append(main, "  SAVE updated entity to database")
		}
	case kw.CRUD && (strings.Contains(title, "delete") || strings.Contains(title, "remove")):
		main = append(main, "  FETCH entity by ID", "  PERFORM soft or hard delete")
		if kw.Database {
			main = append(main, "  REMOVE record from database")
		}
	case kw.CRUD:
		main = append(main,
			"  QUERY data with request filters",
			"  APPLY pagination if needed",
		)
	default:
		main = append(main,
			"  PROCESS request according to requirements",
			"  APPLY business rules and transformations",
		)
	}
	if kw.API {
		main = append(main, "  CALL downstream service endpoints as required")
	}
	if kw.Database {
		main = append(main, "  EXECUTE database operations inside a transaction")
	}
	if isComplex {
		main = append(main, "  COORDINATE multi-step operations behind the service layer")
	}

	success := []string{
		"  CREATE response DTO",
		"  SET success status and message",
		"  POPULATE response data from the result",
	}
	if isComplex {
		success = append(success, "  ADD metadata (timestamp, request ID)")
	}
	success = append(success,
		"  RETURN ResponseEntity with HTTP 200/201",
		"  LOG successful operation",
	)

	errHandling := []string{
		"  ON ValidationException",
		"    LOG error details",
		"    RETURN 400 Bad Request",
	}
	if kw.Database {
		errHandling = append(errHandling,
			"  ON DataNotFoundException",
			"    RETURN 404 Not Found",
			"  ON DataAccessException",
			"    ROLLBACK transaction",
			"    RETURN 500 Internal Server Error",
		)
	}
	if isComplex {
		errHandling = append(errHandling,
			"  ON downstream timeout",
			"    RETURN 504 Gateway Timeout",
		)
	}
	errHandling = append(errHandling,
		"  ON Exception",
		"    LOG error with full context",
		"    RETURN 500 generic error response",
	)

	cleanup := []string{"  FLUSH and CLOSE open resources"}
	if kw.Database {
		cleanup = append(cleanup, "  RETURN connection to the pool")
	}
	cleanup = append(cleanup, "END")

	return []models.PseudoCodeSection{
		{Title: SectionInputValidation, Steps: validation},
		{Title: SectionMainLogic, Steps: main},
		{Title: SectionSuccess, Steps: success},
		{Title: SectionErrorHandling, Steps: errHandling},
		{Title: SectionCleanup, Steps: cleanup},
	}
}

func javaNotes(ctx GenContext) []string {
	notes := []string{
		fmt.Sprintf("Complexity Level: %s", ctx.Level),
		"Target Language: JAVA",
	}
	if ctx.Level == models.ComplexityComplex {
		notes = append(notes,
			"Consider breaking down into smaller components/services",
			"Add comprehensive unit tests for each component",
		)
	}
	notes = append(notes,
		"Use Spring Boot best practices",
		"Implement proper dependency injection",
		"Add logging using SLF4J",
	)
	return notes
}

func javaController(name string) string {
	return fmt.Sprintf(`package com.example.controller;

import com.example.dto.%[1]sDTO;
import com.example.service.%[1]sService;
import lombok.RequiredArgsConstructor;
import lombok.extern.slf4j.Slf4j;
import org.springframework.http.HttpStatus;
import org.springframework.http.ResponseEntity;
import org.springframework.web.bind.annotation.*;

import javax.validation.Valid;
import java.util.List;

@Slf4j
@RestController
@RequestMapping("/api/%[2]s")
@RequiredArgsConstructor
public class %[1]sController {

    private final %[1]sService service;

    @PostMapping
    public ResponseEntity<%[1]sDTO> create(@Valid @RequestBody %[1]sDTO dto) {
        log.info("Creating new %[1]s: {}", dto);
        return ResponseEntity.status(HttpStatus.CREATED).body(service.create(dto));
    }

    @GetMapping("/{id}")
    public ResponseEntity<%[1]sDTO> getById(@PathVariable Long id) {
        return ResponseEntity.ok(service.findById(id));
    }

    @GetMapping
    public ResponseEntity<List<%[1]sDTO>> getAll() {
        return ResponseEntity.ok(service.findAll());
    }

    @PutMapping("/{id}")
    public ResponseEntity<%[1]sDTO> update(@PathVariable Long id, @Valid @RequestBody %[1]sDTO dto) {
        return ResponseEntity.ok(service.update(id, dto));
    }

    @DeleteMapping("/{id}")
    public ResponseEntity<Void> delete(@PathVariable Long id) {
        service.delete(id);
        return ResponseEntity.noContent().build();
    }
}
`, name, strings.ToLower(name))
}

func javaService(name string) string {
	return fmt.Sprintf(`package com.example.service;

import com.example.dto.%[1]sDTO;
import com.example.entity.%[1]sEntity;
import com.example.repository.%[1]sRepository;
import lombok.RequiredArgsConstructor;
import lombok.extern.slf4j.Slf4j;
import org.springframework.stereotype.Service;
import org.springframework.transaction.annotation.Transactional;

import javax.persistence.EntityNotFoundException;
import java.util.List;
import java.util.stream.Collectors;

@Slf4j
@Service
@RequiredArgsConstructor
public class %[1]sService {

    private final %[1]sRepository repository;

    @Transactional
    public %[1]sDTO create(%[1]sDTO dto) {
        %[1]sEntity entity = toEntity(dto);
        validateBusinessRules(entity);
        return toDTO(repository.save(entity));
    }

    @Transactional(readOnly = true)
    public %[1]sDTO findById(Long id) {
        return repository.findById(id)
            .map(this::toDTO)
            .orElseThrow(() -> new EntityNotFoundException("Not found: " + id));
    }

    @Transactional(readOnly = true)
    public List<%[1]sDTO> findAll() {
        return repository.findAll().stream()
            .map(this::toDTO)
            .collect(Collectors.toList());
    }

    @Transactional
    public %[1]sDTO update(Long id, %[1]sDTO dto) {
        %[1]sEntity existing = repository.findById(id)
            .orElseThrow(() -> new EntityNotFoundException("Not found: " + id));
        existing.setName(dto.getName());
        existing.setDescription(dto.getDescription());
        validateBusinessRules(existing);
        return toDTO(repository.save(existing));
    }

    @Transactional
    public void delete(Long id) {
        repository.deleteById(id);
    }

    private void validateBusinessRules(%[1]sEntity entity) {
        // Apply business rules here
    }

    private %[1]sEntity toEntity(%[1]sDTO dto) {
        %[1]sEntity entity = new %[1]sEntity();
        entity.setName(dto.getName());
        entity.setDescription(dto.getDescription());
        return entity;
    }

    private %[1]sDTO toDTO(%[1]sEntity entity) {
        return new %[1]sDTO(entity.getId(), entity.getName(), entity.getDescription(), entity.isActive());
    }
}
`, name)
}

func javaRepository(name string) string {
	return fmt.Sprintf(`package com.example.repository;

import com.example.entity.%[1]sEntity;
import org.springframework.data.jpa.repository.JpaRepository;
import org.springframework.stereotype.Repository;

import java.util.List;

@Repository
public interface %[1]sRepository extends JpaRepository<%[1]sEntity, Long> {

    List<%[1]sEntity> findByActiveTrue();
}
`, name)
}

func javaDTO(name string) string {
	return fmt.Sprintf(`package com.example.dto;

import lombok.AllArgsConstructor;
import lombok.Builder;
import lombok.Data;
import lombok.NoArgsConstructor;

import javax.validation.constraints.NotBlank;

@Data
@Builder
@NoArgsConstructor
@AllArgsConstructor
public class %[1]sDTO {

    private Long id;

    @NotBlank(message = "name is required")
    private String name;

    private String description;
    private boolean active;
}
`, name)
}

func javaEntity(name string) string {
	return fmt.Sprintf(`package com.example.entity;

import lombok.Getter;
import lombok.NoArgsConstructor;
import lombok.Setter;

import javax.persistence.*;
import java.time.Instant;

@Getter
@Setter
@NoArgsConstructor
@Entity
@Table(name = "%[2]s")
public class %[1]sEntity {

    @Id
    @GeneratedValue(strategy = GenerationType.IDENTITY)
    private Long id;

    @Column(nullable = false)
    private String name;

    private String description;
    private boolean active = true;

    @Column(name = "created_at", updatable = false)
    private Instant createdAt = Instant.now();
}
`, name, strings.ToLower(name))
}
